package translation

import (
	"context"
	"fmt"

	"mastodonbridge/src/domain"
	"mastodonbridge/src/domain/entities"
	"mastodonbridge/src/services/identity"
)

// TranslateNote builds a Status from a post. overrideID replaces the encoded
// entity URI as the status id when non-empty.
//
// The author is a hard dependency: if it cannot be resolved the whole status
// fails with domain.ErrAuthorUnresolvable.
func (ts *TranslationService) TranslateNote(ctx context.Context, note *entities.Entity, overrideID string) (*domain.Status, error) {
	if note == nil {
		return nil, fmt.Errorf("TranslationService.TranslateNote - nil entity: %w", domain.ErrEntityNotFound)
	}

	if !note.HasType(entities.TypeNote) {
		return nil, fmt.Errorf("TranslationService.TranslateNote - %s: %w", note.ID, domain.ErrNotAPost)
	}

	props := note.Properties

	content, ok := props.FirstString("content")
	if !ok {
		return nil, fmt.Errorf("TranslationService.TranslateNote - %s: %w", note.ID, domain.ErrMissingContent)
	}

	author, err := ts.resolveAuthor(ctx, note)
	if err != nil {
		return nil, err
	}

	account, err := ts.TranslateAccount(ctx, author)
	if err != nil {
		return nil, fmt.Errorf("TranslationService.TranslateNote - failed to translate author of %s: %w", note.ID, err)
	}

	id := overrideID
	if id == "" {
		id = identity.EncodeURI(note.ID)
	}

	url, ok := props.FirstLink("url")
	if !ok {
		url = note.ID
	}

	followersID, _ := author.Properties.FirstID("followers")

	status := &domain.Status{
		ID:               id,
		URI:              note.ID,
		URL:              url,
		Account:          account,
		InReplyToID:      optionalID(props, "inReplyTo"),
		Content:          content,
		CreatedAt:        ts.publishedOrNow(note),
		Emojis:           []string{},
		Sensitive:        props.AnyTrue("sensitive"),
		SpoilerText:      optionalString(props, "summary"),
		Visibility:       ClassifyVisibility(props, followersID),
		MediaAttachments: []string{},
		Mentions:         []string{},
		Tags:             []string{},
		Application:      ts.application,
	}

	return status, nil
}

func (ts *TranslationService) resolveAuthor(ctx context.Context, note *entities.Entity) (*entities.Entity, error) {
	authorID, ok := note.Properties.FirstID("attributedTo")
	if !ok {
		return nil, fmt.Errorf("TranslationService.resolveAuthor - %s has no attributedTo: %w", note.ID, domain.ErrAuthorUnresolvable)
	}

	author, err := ts.entityLookup.GetEntity(ctx, authorID, true)
	if err != nil {
		return nil, fmt.Errorf("TranslationService.resolveAuthor - failed to look up %s: %w", authorID, err)
	}

	if author == nil {
		return nil, fmt.Errorf("TranslationService.resolveAuthor - %s: %w", authorID, domain.ErrAuthorUnresolvable)
	}

	return author, nil
}

func optionalID(props entities.Properties, key string) *string {
	id, ok := props.FirstID(key)
	if !ok {
		return nil
	}
	return &id
}

func optionalString(props entities.Properties, key string) *string {
	s, ok := props.FirstString(key)
	if !ok {
		return nil
	}
	return &s
}

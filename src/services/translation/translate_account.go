package translation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"mastodonbridge/src/domain"
	"mastodonbridge/src/domain/entities"
	"mastodonbridge/src/services/identity"
)

// TranslateAccount builds an Account from an actor. Every optional property has a
// fallback; only a nil entity or a cancelled context fails the translation.
func (ts *TranslationService) TranslateAccount(ctx context.Context, actor *entities.Entity) (*domain.Account, error) {
	if actor == nil {
		return nil, fmt.Errorf("TranslationService.TranslateAccount - nil actor: %w", domain.ErrEntityNotFound)
	}

	props := actor.Properties

	username := stringOr(props, "preferredUsername", actor.ID)

	url, ok := props.FirstLink("url")
	if !ok {
		url = actor.ID
	}

	account := &domain.Account{
		ID:          identity.EncodeURI(actor.ID),
		Username:    username,
		Acct:        acctOf(actor, username),
		DisplayName: stringOr(props, "name", actor.ID),
		Locked:      props.AnyTrue("manuallyApprovesFollowers"),
		CreatedAt:   ts.publishedOrNow(actor),
		Note:        stringOr(props, "summary", ""),
		URL:         url,
	}

	account.Avatar = avatarOf(actor)
	account.AvatarStatic = account.Avatar

	account.FollowersCount, account.FollowingCount, account.StatusesCount = ts.collectionCounts(ctx, actor)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("TranslationService.TranslateAccount - %s: %w", actor.ID, err)
	}

	return account, nil
}

// collectionCounts reads totalItems of the three actor collections concurrently.
// Any lookup that fails or lacks totalItems yields domain.UnknownCount.
func (ts *TranslationService) collectionCounts(ctx context.Context, actor *entities.Entity) (followers, following, statuses int64) {
	var g errgroup.Group

	g.Go(func() error {
		followers = ts.countItems(ctx, actor, "followers")
		return nil
	})
	g.Go(func() error {
		following = ts.countItems(ctx, actor, "following")
		return nil
	})
	g.Go(func() error {
		statuses = ts.countItems(ctx, actor, "outbox")
		return nil
	})

	_ = g.Wait()

	return followers, following, statuses
}

func (ts *TranslationService) countItems(ctx context.Context, actor *entities.Entity, key string) int64 {
	collectionID, ok := actor.Properties.FirstID(key)
	if !ok {
		return domain.UnknownCount
	}

	collection, err := ts.entityLookup.GetEntity(ctx, collectionID, false)
	if err != nil {
		ts.logger.Warn("Collection lookup failed, count left unknown",
			"entity_id", actor.ID,
			"property", key,
			"collection_id", collectionID,
			"error", err)
		return domain.UnknownCount
	}

	if collection == nil {
		return domain.UnknownCount
	}

	total, ok := collection.Properties.FirstInt("totalItems")
	if !ok {
		return domain.UnknownCount
	}

	return total
}

func acctOf(actor *entities.Entity, username string) string {
	if actor.IsOwner {
		return username
	}

	host, ok := actor.Host()
	if !ok {
		return username
	}

	return username + "@" + host
}

// avatarOf takes the icon reference id, or the url of an embedded icon object.
func avatarOf(actor *entities.Entity) *string {
	icon, ok := actor.Properties.First("icon")
	if !ok {
		return nil
	}

	if icon.ID != "" {
		avatar := icon.ID
		return &avatar
	}

	if icon.SubObject != nil {
		if avatar, ok := icon.SubObject.Properties.FirstLink("url"); ok {
			return &avatar
		}
	}

	return nil
}

func stringOr(props entities.Properties, key string, fallback string) string {
	if s, ok := props.FirstString(key); ok {
		return s
	}
	return fallback
}

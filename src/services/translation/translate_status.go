package translation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"mastodonbridge/src/domain"
	"mastodonbridge/src/domain/entities"
	"mastodonbridge/src/services/identity"
)

// ActivityKind is the classified shape of a status-bearing item. It is computed
// once per item by ClassifyActivity and matched exhaustively afterwards.
type ActivityKind int

const (
	ActivityNeither ActivityKind = iota
	ActivityCreation
	ActivityReshare
	// ActivityPost is a bare post, not wrapped in any activity.
	ActivityPost
)

func (k ActivityKind) String() string {
	switch k {
	case ActivityCreation:
		return "creation"
	case ActivityReshare:
		return "reshare"
	case ActivityPost:
		return "post"
	default:
		return "neither"
	}
}

func ClassifyActivity(entity *entities.Entity) ActivityKind {
	switch {
	case entity.HasType(entities.TypeCreate):
		return ActivityCreation
	case entity.HasType(entities.TypeAnnounce):
		return ActivityReshare
	case entity.HasType(entities.TypeNote):
		return ActivityPost
	default:
		return ActivityNeither
	}
}

// TranslateStatus desembrulha um item (Create, Announce ou post direto) e
// produz o Status correspondente.
//
// Items that are neither creations nor reshares are filtered out with
// domain.ErrNotAStatusActivity. A bare post is only surfaced when it was
// addressed directly by URI, never from a collection.
func (ts *TranslationService) TranslateStatus(ctx context.Context, item entities.CollectionItem) (*domain.Status, error) {
	if item.Entity == nil {
		return nil, fmt.Errorf("TranslationService.TranslateStatus - empty item %d: %w", item.SequenceNumber, domain.ErrEntityNotFound)
	}

	switch kind := ClassifyActivity(item.Entity); kind {
	case ActivityCreation:
		return ts.translateCreation(ctx, item)
	case ActivityReshare:
		return ts.translateReshare(ctx, item)
	case ActivityPost:
		if item.FromCollection() {
			return nil, fmt.Errorf("TranslationService.TranslateStatus - bare post at %d: %w", item.SequenceNumber, domain.ErrNotAStatusActivity)
		}
		return ts.TranslateNote(ctx, item.Entity, "")
	default:
		return nil, fmt.Errorf("TranslationService.TranslateStatus - %s: %w", item.Entity.ID, domain.ErrNotAStatusActivity)
	}
}

func (ts *TranslationService) translateCreation(ctx context.Context, item entities.CollectionItem) (*domain.Status, error) {
	overrideID := ""
	if item.FromCollection() {
		overrideID = identity.EncodeSequence(item.SequenceNumber)
	}

	return ts.translateWrappedNote(ctx, item.Entity, overrideID)
}

// translateReshare resolves the inner post and the resharer concurrently; either
// failing fails the reshare.
func (ts *TranslationService) translateReshare(ctx context.Context, item entities.CollectionItem) (*domain.Status, error) {
	activity := item.Entity

	var (
		inner    *domain.Status
		resharer *domain.Account
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		inner, err = ts.translateWrappedNote(gctx, activity, "")
		return err
	})

	g.Go(func() error {
		var err error
		resharer, err = ts.resolveResharer(gctx, activity)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	id := identity.EncodeURI(activity.ID)
	if item.FromCollection() {
		id = identity.EncodeSequence(item.SequenceNumber)
	}

	reshare := *inner
	reshare.ID = id
	reshare.Account = resharer
	reshare.CreatedAt = ts.publishedOrNow(activity)
	reshare.Reblog = inner

	return &reshare, nil
}

func (ts *TranslationService) translateWrappedNote(ctx context.Context, activity *entities.Entity, overrideID string) (*domain.Status, error) {
	objectID, ok := activity.Properties.FirstID("object")
	if !ok {
		return nil, fmt.Errorf("TranslationService.translateWrappedNote - %s has no object: %w", activity.ID, domain.ErrEntityNotFound)
	}

	object, err := ts.entityLookup.GetEntity(ctx, objectID, true)
	if err != nil {
		return nil, fmt.Errorf("TranslationService.translateWrappedNote - failed to look up %s: %w", objectID, err)
	}

	if object == nil {
		return nil, fmt.Errorf("TranslationService.translateWrappedNote - object %s: %w", objectID, domain.ErrEntityNotFound)
	}

	return ts.TranslateNote(ctx, object, overrideID)
}

func (ts *TranslationService) resolveResharer(ctx context.Context, activity *entities.Entity) (*domain.Account, error) {
	actorID, ok := activity.Properties.FirstID("actor")
	if !ok {
		return nil, fmt.Errorf("TranslationService.resolveResharer - %s has no actor: %w", activity.ID, domain.ErrEntityNotFound)
	}

	actor, err := ts.entityLookup.GetEntity(ctx, actorID, true)
	if err != nil {
		return nil, fmt.Errorf("TranslationService.resolveResharer - failed to look up %s: %w", actorID, err)
	}

	if actor == nil {
		return nil, fmt.Errorf("TranslationService.resolveResharer - actor %s: %w", actorID, domain.ErrEntityNotFound)
	}

	return ts.TranslateAccount(ctx, actor)
}

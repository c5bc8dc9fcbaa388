package translation

import (
	"context"
	"log/slog"
	"time"

	"mastodonbridge/src/domain"
	"mastodonbridge/src/domain/entities"
)

// EntityLookup resolves an entity by id. A missing entity is (nil, nil), never an error.
type EntityLookup interface {
	GetEntity(ctx context.Context, id string, resolveRemote bool) (*entities.Entity, error)
}

// TranslationService converte o grafo de entidades nos recursos
// Account e Status. Não guarda estado derivado entre chamadas.
type TranslationService struct {
	logger       *slog.Logger
	entityLookup EntityLookup
	application  domain.Application
	now          func() time.Time
}

func NewTranslationService(
	logger *slog.Logger,
	entityLookup EntityLookup,
	application domain.Application,
) *TranslationService {
	return &TranslationService{
		logger:       logger,
		entityLookup: entityLookup,
		application:  application,
		now:          time.Now,
	}
}

// WithClock replaces the wall clock used for missing timestamps.
func (ts *TranslationService) WithClock(now func() time.Time) *TranslationService {
	ts.now = now
	return ts
}

// publishedOrNow parses the first "published" value, falling back to the clock.
func (ts *TranslationService) publishedOrNow(entity *entities.Entity) time.Time {
	published, ok := entity.Properties.FirstString("published")
	if !ok {
		return ts.now()
	}

	parsed, err := time.Parse(time.RFC3339Nano, published)
	if err != nil {
		ts.logger.Debug("Unparseable published timestamp, using current time",
			"entity_id", entity.ID,
			"published", published)
		return ts.now()
	}

	return parsed
}

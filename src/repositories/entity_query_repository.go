package repositories

import (
	"context"
	"fmt"

	"mastodonbridge/src/domain"
	"mastodonbridge/src/domain/entities"
	"mastodonbridge/src/infra/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

type EntityQueryRepository struct {
	pool *pgxpool.Pool
}

func NewEntityQueryRepository(pool *pgxpool.Pool) *EntityQueryRepository {
	return &EntityQueryRepository{pool: pool}
}

func (r *EntityQueryRepository) GetEntity(ctx context.Context, id string) (*entities.StoredEntity, error) {
	query := `
		SELECT
			id,
			is_owner,
			document,
			updated_at
		FROM
			entities
		WHERE
			id = $1;
	`

	var stored entities.StoredEntity
	err := r.pool.QueryRow(ctx, query, id).Scan(&stored.ID, &stored.IsOwner, &stored.Document, &stored.UpdatedAt)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, fmt.Errorf("EntityQueryRepository.GetEntity - %s: %w", id, domain.ErrEntityNotFound)
		}
		return nil, fmt.Errorf("EntityQueryRepository.GetEntity - query failed: %w", err)
	}

	return &stored, nil
}

// GetCollectionItem returns the entity appended to a collection under sequenceNumber.
func (r *EntityQueryRepository) GetCollectionItem(ctx context.Context, sequenceNumber int64) (*entities.StoredEntity, error) {
	query := `
		SELECT
			e.id,
			e.is_owner,
			e.document,
			e.updated_at
		FROM
			collection_items ci
		JOIN
			entities e ON e.id = ci.entity_id
		WHERE
			ci.id = $1;
	`

	var stored entities.StoredEntity
	err := r.pool.QueryRow(ctx, query, sequenceNumber).Scan(&stored.ID, &stored.IsOwner, &stored.Document, &stored.UpdatedAt)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, fmt.Errorf("EntityQueryRepository.GetCollectionItem - %d: %w", sequenceNumber, domain.ErrEntityNotFound)
		}
		return nil, fmt.Errorf("EntityQueryRepository.GetCollectionItem - query failed: %w", err)
	}

	return &stored, nil
}

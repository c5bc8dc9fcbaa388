package test_seeder

import (
	"context"
	"fmt"

	"mastodonbridge/src/domain/entities"
)

// InsertEntity inserts a stored entity and fills in its UpdatedAt.
func (ts TestSeeder) InsertEntity(ctx context.Context, stored *entities.StoredEntity) {
	query := `
		INSERT INTO entities (id, is_owner, document)
		VALUES ($1, $2, $3) RETURNING updated_at`

	err := ts.pool.QueryRow(ctx, query,
		stored.ID,
		stored.IsOwner,
		string(stored.Document),
	).Scan(&stored.UpdatedAt)

	if err != nil {
		panic(fmt.Sprintf("Seeder.InsertEntity failed: %v", err))
	}
}

// InsertCollectionItem appends entityID to collectionID and returns its sequence number.
func (ts TestSeeder) InsertCollectionItem(ctx context.Context, collectionID string, entityID string) int64 {
	query := `
		INSERT INTO collection_items (collection_id, entity_id)
		VALUES ($1, $2) RETURNING id`

	var sequenceNumber int64
	if err := ts.pool.QueryRow(ctx, query, collectionID, entityID).Scan(&sequenceNumber); err != nil {
		panic(fmt.Sprintf("Seeder.InsertCollectionItem failed: %v", err))
	}

	return sequenceNumber
}

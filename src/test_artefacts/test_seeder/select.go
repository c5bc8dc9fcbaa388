package test_seeder

import (
	"context"

	"mastodonbridge/src/domain/entities"
)

func (ts TestSeeder) SelectEntitiesByIDs(ctx context.Context, ids []string) ([]entities.StoredEntity, error) {
	query := `SELECT id, is_owner, document, updated_at
			  FROM entities WHERE id = ANY($1) ORDER BY id`

	rows, err := ts.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var storedList []entities.StoredEntity
	for rows.Next() {
		var stored entities.StoredEntity
		if err := rows.Scan(&stored.ID, &stored.IsOwner, &stored.Document, &stored.UpdatedAt); err != nil {
			return nil, err
		}
		storedList = append(storedList, stored)
	}

	return storedList, rows.Err()
}

// SelectCollectionEntityIDs lists the entity ids of a collection in sequence order.
func (ts TestSeeder) SelectCollectionEntityIDs(ctx context.Context, collectionID string) ([]string, error) {
	rows, err := ts.pool.Query(ctx,
		`SELECT entity_id FROM collection_items WHERE collection_id = $1 ORDER BY id`, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

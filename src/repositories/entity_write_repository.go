package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mastodonbridge/src/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type cacheInvalidator interface {
	InvalidateByEntityIDs(ctx context.Context, entityIDs []string) error
}

type EntityWriteRepository struct {
	logger      *slog.Logger
	writePool   *pgxpool.Pool
	invalidator cacheInvalidator
}

func NewEntityWriteRepository(logger *slog.Logger, writePool *pgxpool.Pool, invalidator cacheInvalidator) *EntityWriteRepository {
	return &EntityWriteRepository{logger: logger, writePool: writePool, invalidator: invalidator}
}

// SyncEntities applies upserts, deletions and collection appends in one
// transaction. Upserts replace the whole document.
func (r *EntityWriteRepository) SyncEntities(ctx context.Context, request domain.SyncEntitiesRequest) error {
	if request.IsEmpty() {
		return nil
	}

	tx, err := r.writePool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("EntityWriteRepository.SyncEntities - failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.upsertEntities(ctx, tx, request); err != nil {
		return err
	}

	if len(request.Deletions) > 0 {
		_, err = tx.Exec(ctx, `DELETE FROM entities WHERE id = ANY($1);`, request.Deletions)
		if err != nil {
			return fmt.Errorf("EntityWriteRepository.SyncEntities - failed to delete entities: %w", err)
		}
	}

	if err := r.appendToCollections(ctx, tx, request.Appends); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("EntityWriteRepository.SyncEntities - failed to commit: %w", err)
	}

	// Invalida depois do commit para não repopular o cache com a versão antiga.
	affectedIDs := request.AffectedIDs()
	go func() {
		ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if invalidateErr := r.invalidator.InvalidateByEntityIDs(ctxWithTimeout, affectedIDs); invalidateErr != nil {
			r.logger.Warn("Failed to invalidate entity cache", "count", len(affectedIDs), "error", invalidateErr)
		}
	}()

	return nil
}

func (r *EntityWriteRepository) upsertEntities(ctx context.Context, tx pgx.Tx, request domain.SyncEntitiesRequest) error {
	if len(request.Upserts) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(request.Upserts))
	for i, entity := range request.Upserts {
		// ordinal preserva "último evento vence" dentro do lote
		rows = append(rows, []interface{}{entity.ID, entity.IsOwner, string(entity.Document), i})
	}

	tempTableQuery := `CREATE TEMP TABLE temp_entity_upserts (
		id TEXT, is_owner BOOLEAN, document JSONB, ordinal INT
	) ON COMMIT DROP;`
	if _, err := tx.Exec(ctx, tempTableQuery); err != nil {
		return fmt.Errorf("EntityWriteRepository.SyncEntities - failed to create temp table: %w", err)
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"temp_entity_upserts"},
		[]string{"id", "is_owner", "document", "ordinal"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("EntityWriteRepository.SyncEntities - failed to copy entities to temp table: %w", err)
	}

	query := `
		INSERT INTO
			entities (id, is_owner, document)
		SELECT DISTINCT ON (id)
			id, is_owner, document
		FROM
			temp_entity_upserts
		ORDER BY
			id, ordinal DESC
		ON CONFLICT (id) DO UPDATE SET
			is_owner = excluded.is_owner,
			document = excluded.document,
			updated_at = NOW()
		WHERE
			entities.document IS DISTINCT FROM excluded.document
			OR entities.is_owner IS DISTINCT FROM excluded.is_owner;
	`
	if _, err := tx.Exec(ctx, query); err != nil {
		return fmt.Errorf("EntityWriteRepository.SyncEntities - failed to upsert entities: %w", err)
	}

	return nil
}

func (r *EntityWriteRepository) appendToCollections(ctx context.Context, tx pgx.Tx, appends []domain.CollectionAppend) error {
	if len(appends) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, item := range appends {
		batch.Queue(
			`INSERT INTO collection_items (collection_id, entity_id) VALUES ($1, $2);`,
			item.CollectionID, item.EntityID,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("EntityWriteRepository.SyncEntities - failed to append collection items: %w", err)
	}

	return nil
}

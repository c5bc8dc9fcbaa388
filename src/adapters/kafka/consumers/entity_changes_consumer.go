package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"mastodonbridge/src/domain"
	"mastodonbridge/src/domain/entities"
	"mastodonbridge/src/infra/kafka"
	"mastodonbridge/src/infra/metrics"
)

// EntityChangeMessage representa o schema da mensagem Kafka
type EntityChangeMessage struct {
	ID       string          `json:"id"`
	IsOwner  bool            `json:"is_owner"`
	Deleted  bool            `json:"deleted"`
	Document json.RawMessage `json:"document"`
	// Collections the entity was appended to by this change (e.g. an outbox).
	Collections []string `json:"collections,omitempty"`
}

type entitySyncer interface {
	SyncEntities(ctx context.Context, request domain.SyncEntitiesRequest) error
}

type EntityChangesConsumer struct {
	logger *slog.Logger
	writer entitySyncer
}

func NewEntityChangesConsumer(
	logger *slog.Logger,
	writer entitySyncer,
) *EntityChangesConsumer {
	return &EntityChangesConsumer{
		logger: logger,
		writer: writer,
	}
}

func (c *EntityChangesConsumer) Start(ctx context.Context, kafkaClient *kafka.KafkaClient, topic string) error {
	c.logger.Info("Starting entity changes consumer", "topic", topic)

	return kafkaClient.Consumer(ctx, c.HandleMessages, topic)
}

// HandleMessages applies one batch. Any malformed message fails the whole
// batch so that it is redelivered instead of partially applied.
func (c *EntityChangesConsumer) HandleMessages(ctx context.Context, messages []kafka.Message) error {
	if len(messages) == 0 {
		return nil
	}

	c.logger.Debug("Processing entity changes batch", "count", len(messages))

	changes := make([]EntityChangeMessage, 0, len(messages))
	for _, msg := range messages {
		change, err := c.decode(msg)
		if err != nil {
			return err
		}
		changes = append(changes, change)
	}

	request := buildSyncRequest(changes)
	if request.IsEmpty() {
		return nil
	}

	if err := c.writer.SyncEntities(ctx, request); err != nil {
		c.logger.Error("Failed to sync entities",
			"error", err,
			"upserts", len(request.Upserts),
			"deletions", len(request.Deletions),
			"appends", len(request.Appends))
		return fmt.Errorf("EntityChangesConsumer.HandleMessages - %w", err)
	}

	metrics.ConsumedEntityChanges.WithLabelValues("upsert").Add(float64(len(request.Upserts)))
	metrics.ConsumedEntityChanges.WithLabelValues("delete").Add(float64(len(request.Deletions)))
	metrics.ConsumedEntityChanges.WithLabelValues("append").Add(float64(len(request.Appends)))

	c.logger.Info("Successfully processed entity changes batch",
		"count", len(messages),
		"upserts", len(request.Upserts),
		"deletions", len(request.Deletions),
		"appends", len(request.Appends))

	return nil
}

func (c *EntityChangesConsumer) decode(msg kafka.Message) (EntityChangeMessage, error) {
	var change EntityChangeMessage
	if err := json.Unmarshal(msg.Value, &change); err != nil {
		c.logger.Error("Failed to unmarshal message", "error", err, "key", msg.Key)
		return change, fmt.Errorf("failed to unmarshal message with key %s: %w", msg.Key, err)
	}

	if change.ID == "" {
		c.logger.Error("Invalid message: missing id", "key", msg.Key)
		return change, fmt.Errorf("invalid message with key %s: id is required", msg.Key)
	}

	if change.Deleted {
		return change, nil
	}

	if _, err := entities.ParseDocument(change.Document, change.IsOwner); err != nil {
		c.logger.Error("Invalid message: bad document", "key", msg.Key, "id", change.ID, "error", err)
		return change, fmt.Errorf("invalid message with key %s: %w", msg.Key, err)
	}

	return change, nil
}

// buildSyncRequest keeps only the last change per id, in first-seen order.
// Appends of an entity whose final state is deleted are dropped.
func buildSyncRequest(changes []EntityChangeMessage) domain.SyncEntitiesRequest {
	latest := make(map[string]EntityChangeMessage, len(changes))
	order := make([]string, 0, len(changes))
	for _, change := range changes {
		if _, seen := latest[change.ID]; !seen {
			order = append(order, change.ID)
		}
		latest[change.ID] = change
	}

	var request domain.SyncEntitiesRequest
	for _, id := range order {
		change := latest[id]
		if change.Deleted {
			request.Deletions = append(request.Deletions, id)
			continue
		}
		request.Upserts = append(request.Upserts, entities.StoredEntity{
			ID:       id,
			IsOwner:  change.IsOwner,
			Document: change.Document,
		})
	}

	for _, change := range changes {
		if change.Deleted || latest[change.ID].Deleted {
			continue
		}
		for _, collectionID := range change.Collections {
			if collectionID == "" {
				continue
			}
			request.Appends = append(request.Appends, domain.CollectionAppend{
				CollectionID: collectionID,
				EntityID:     change.ID,
			})
		}
	}

	return request
}

//go:build datagen_kafka_entity_changes
// +build datagen_kafka_entity_changes

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mastodonbridge/src/adapters/kafka/consumers"
	"mastodonbridge/src/infra/kafka"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
)

const publicAudience = "https://www.w3.org/ns/activitystreams#Public"

type generator struct {
	baseURL string
	actors  []string
	notes   []string
}

func (g *generator) newID(kind string) string {
	return fmt.Sprintf("%s/%s/%s", g.baseURL, kind, uuid.NewString())
}

func change(id string, document map[string]any, collections ...string) consumers.EntityChangeMessage {
	raw, err := json.Marshal(document)
	if err != nil {
		log.Fatalf("Failed to marshal document %s: %v", id, err)
	}

	return consumers.EntityChangeMessage{
		ID:          id,
		IsOwner:     true,
		Document:    raw,
		Collections: collections,
	}
}

// generateActor creates an actor with its counted collections.
func (g *generator) generateActor() []consumers.EntityChangeMessage {
	username := strings.ToLower(faker.Username())
	actorID := fmt.Sprintf("%s/users/%s", g.baseURL, username)
	g.actors = append(g.actors, actorID)

	collection := func(name string) (string, consumers.EntityChangeMessage) {
		id := actorID + "/" + name
		return id, change(id, map[string]any{
			"id":         id,
			"type":       "OrderedCollection",
			"totalItems": rand.Intn(500),
		})
	}

	followersID, followers := collection("followers")
	followingID, following := collection("following")
	outboxID, outbox := collection("outbox")

	actor := change(actorID, map[string]any{
		"@context":                  "https://www.w3.org/ns/activitystreams",
		"id":                        actorID,
		"type":                      "Person",
		"preferredUsername":         username,
		"name":                      faker.Name(),
		"summary":                   faker.Sentence(),
		"published":                 time.Now().Add(-time.Duration(rand.Intn(10000)) * time.Hour).Format(time.RFC3339),
		"followers":                 followersID,
		"following":                 followingID,
		"outbox":                    outboxID,
		"manuallyApprovesFollowers": rand.Float32() < 0.2,
		"icon": map[string]any{
			"type": "Image",
			"url":  fmt.Sprintf("%s/media/%s.png", g.baseURL, uuid.NewString()),
		},
	})

	return []consumers.EntityChangeMessage{followers, following, outbox, actor}
}

// generateCreation creates a note and the Create activity appended to the author's outbox.
func (g *generator) generateCreation() []consumers.EntityChangeMessage {
	author := g.actors[rand.Intn(len(g.actors))]
	noteID := g.newID("notes")
	published := time.Now().Format(time.RFC3339)

	to := []string{publicAudience}
	cc := []string{author + "/followers"}
	if rand.Float32() < 0.3 {
		to, cc = []string{author + "/followers"}, nil
	}

	note := map[string]any{
		"id":           noteID,
		"type":         "Note",
		"attributedTo": author,
		"content":      "<p>" + faker.Paragraph() + "</p>",
		"published":    published,
		"to":           to,
		"cc":           cc,
	}
	if len(g.notes) > 0 && rand.Float32() < 0.2 {
		note["inReplyTo"] = g.notes[rand.Intn(len(g.notes))]
	}
	g.notes = append(g.notes, noteID)

	createID := g.newID("activities")
	create := change(createID, map[string]any{
		"id":        createID,
		"type":      "Create",
		"actor":     author,
		"object":    noteID,
		"published": published,
		"to":        to,
	}, author+"/outbox")

	return []consumers.EntityChangeMessage{change(noteID, note), create}
}

func (g *generator) generateReshare() []consumers.EntityChangeMessage {
	actor := g.actors[rand.Intn(len(g.actors))]
	announceID := g.newID("activities")

	return []consumers.EntityChangeMessage{change(announceID, map[string]any{
		"id":        announceID,
		"type":      "Announce",
		"actor":     actor,
		"object":    g.notes[rand.Intn(len(g.notes))],
		"published": time.Now().Format(time.RFC3339),
		"to":        []string{publicAudience},
	}, actor+"/outbox")}
}

func (g *generator) generateBatch(size int) []consumers.EntityChangeMessage {
	messages := make([]consumers.EntityChangeMessage, 0, size)

	for len(messages) < size {
		switch roll := rand.Float32(); {
		case len(g.actors) == 0 || roll < 0.1:
			messages = append(messages, g.generateActor()...)
		case len(g.notes) == 0 || roll < 0.8:
			messages = append(messages, g.generateCreation()...)
		default:
			messages = append(messages, g.generateReshare()...)
		}
	}

	return messages
}

func main() {
	totalMessages := flag.Int("count", 1000, "Total number of messages to generate. Use -1 for infinite.")
	batchSize := flag.Int("batch-size", 100, "Number of messages per batch")
	topic := flag.String("topic", "", "Kafka topic to send messages to (required)")
	brokers := flag.String("brokers", "", "Kafka brokers (comma-separated) (required)")
	groupID := flag.String("group-id", "", "Kafka group ID (required)")
	baseURL := flag.String("base-url", "https://bridge.example", "Base URL of the generated local entities")
	delayMs := flag.Int("delay-ms", 100, "Delay in milliseconds between batches")
	flag.Parse()

	if *topic == "" {
		log.Fatal("The 'topic' flag is required")
	}
	if *brokers == "" {
		log.Fatal("The 'brokers' flag is required")
	}
	if *groupID == "" {
		log.Fatal("The 'group-id' flag is required")
	}

	isInfinite := *totalMessages == -1
	if isInfinite {
		log.Printf("Starting entity changes datagen in INFINITE mode with batches of %d", *batchSize)
	} else {
		log.Printf("Starting entity changes datagen with %d messages in batches of %d", *totalMessages, *batchSize)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	kafkaClient, err := kafka.NewKafkaClient(logger, *brokers, *groupID, *batchSize)
	if err != nil {
		log.Fatalf("Failed to create Kafka client: %v", err)
	}
	defer kafkaClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal, stopping...")
		cancel()
	}()

	g := &generator{baseURL: strings.TrimSuffix(*baseURL, "/")}
	messagesSent := 0
	startTime := time.Now()

	for isInfinite || messagesSent < *totalMessages {
		select {
		case <-ctx.Done():
			log.Println("Shutdown requested, stopping message generation")
			return
		default:
		}

		batch := g.generateBatch(*batchSize)

		kafkaMessages := make([]kafka.Message, 0, len(batch))
		for _, msg := range batch {
			msgBytes, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Failed to marshal message: %v", err)
				continue
			}

			// Chave = id da entidade: mudanças da mesma entidade ficam na mesma partição.
			kafkaMessages = append(kafkaMessages, kafka.Message{
				Key:   msg.ID,
				Value: msgBytes,
			})
		}

		if err := kafkaClient.Producer(kafkaMessages, *topic); err != nil {
			log.Printf("Failed to send batch: %v", err)
			continue
		}

		messagesSent += len(kafkaMessages)

		elapsed := time.Since(startTime)
		rate := float64(messagesSent) / elapsed.Seconds()
		log.Printf("Sent %d messages (%.1f msg/sec)", messagesSent, rate)

		if *delayMs > 0 {
			time.Sleep(time.Duration(*delayMs) * time.Millisecond)
		}
	}

	log.Printf("Stopped! Sent %d messages in %v", messagesSent, time.Since(startTime))
}

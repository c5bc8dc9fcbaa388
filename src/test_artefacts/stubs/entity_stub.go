package stubs

import (
	"fmt"
	"strings"
	"time"

	"mastodonbridge/src/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
)

// EntityStub builds entities for tests. Every With* returns a copy.
type EntityStub struct {
	entity entities.Entity
}

func NewEntityStub(typeName string) EntityStub {
	return EntityStub{entity: entities.Entity{
		ID:         fmt.Sprintf("https://%s/objects/%s", gofakeit.DomainName(), gofakeit.UUID()),
		Types:      []string{entities.ExpandType(typeName)},
		Properties: entities.Properties{},
	}}
}

func (es EntityStub) clone() EntityStub {
	properties := make(entities.Properties, len(es.entity.Properties))
	for key, values := range es.entity.Properties {
		properties[key] = append([]entities.Value(nil), values...)
	}
	es.entity.Properties = properties
	es.entity.Types = append([]string(nil), es.entity.Types...)
	return es
}

func (es EntityStub) WithID(id string) EntityStub {
	es = es.clone()
	es.entity.ID = id
	return es
}

func (es EntityStub) WithTypes(typeNames ...string) EntityStub {
	es = es.clone()
	es.entity.Types = es.entity.Types[:0]
	for _, name := range typeNames {
		es.entity.Types = append(es.entity.Types, entities.ExpandType(name))
	}
	return es
}

func (es EntityStub) Owned(isOwner bool) EntityStub {
	es = es.clone()
	es.entity.IsOwner = isOwner
	return es
}

func (es EntityStub) WithValues(key string, values ...entities.Value) EntityStub {
	es = es.clone()
	es.entity.Properties[key] = values
	return es
}

func (es EntityStub) WithPrimitive(key string, value any) EntityStub {
	return es.WithValues(key, entities.NewPrimitive(value))
}

func (es EntityStub) WithReferences(key string, ids ...string) EntityStub {
	values := make([]entities.Value, 0, len(ids))
	for _, id := range ids {
		values = append(values, entities.NewReference(id))
	}
	return es.WithValues(key, values...)
}

func (es EntityStub) WithEmbedded(key string, sub entities.Entity) EntityStub {
	return es.WithValues(key, entities.NewEmbedded(&sub))
}

func (es EntityStub) WithPublished(t time.Time) EntityStub {
	return es.WithPrimitive("published", t.UTC().Format(time.RFC3339))
}

func (es EntityStub) Without(keys ...string) EntityStub {
	es = es.clone()
	for _, key := range keys {
		delete(es.entity.Properties, key)
	}
	return es
}

func (es EntityStub) Get() entities.Entity {
	return es.clone().entity
}

func (es EntityStub) Ptr() *entities.Entity {
	entity := es.Get()
	return &entity
}

// NewActorStub creates a Person on host with followers, following and outbox
// collections referenced by id.
func NewActorStub(host string) EntityStub {
	username := strings.ToLower(gofakeit.Username())
	id := fmt.Sprintf("https://%s/users/%s", host, username)

	return NewEntityStub("Person").
		WithID(id).
		WithPrimitive("preferredUsername", username).
		WithPrimitive("name", gofakeit.Name()).
		WithPrimitive("summary", gofakeit.Sentence(8)).
		WithPublished(gofakeit.PastDate()).
		WithReferences("followers", id+"/followers").
		WithReferences("following", id+"/following").
		WithReferences("outbox", id+"/outbox")
}

// NewCollectionStub creates an OrderedCollection with totalItems.
func NewCollectionStub(id string, totalItems int64) EntityStub {
	return NewEntityStub("OrderedCollection").
		WithID(id).
		WithPrimitive("totalItems", totalItems)
}

// NewNoteStub creates a public Note attributed to authorID.
func NewNoteStub(authorID string) EntityStub {
	h, _ := (&entities.Entity{ID: authorID}).Host()

	return NewEntityStub("Note").
		WithID(fmt.Sprintf("https://%s/notes/%s", h, gofakeit.UUID())).
		WithReferences("attributedTo", authorID).
		WithPrimitive("content", "<p>"+gofakeit.Sentence(12)+"</p>").
		WithPublished(gofakeit.PastDate()).
		WithReferences("to", entities.PublicAudience)
}

// NewActivityStub creates a Create or Announce of objectID by actorID.
func NewActivityStub(typeName string, actorID string, objectID string) EntityStub {
	h, _ := (&entities.Entity{ID: actorID}).Host()

	return NewEntityStub(typeName).
		WithID(fmt.Sprintf("https://%s/activities/%s", h, gofakeit.UUID())).
		WithReferences("actor", actorID).
		WithReferences("object", objectID).
		WithPublished(gofakeit.PastDate())
}

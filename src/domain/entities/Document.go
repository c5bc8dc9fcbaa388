package entities

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/tidwall/gjson"
)

var ErrInvalidDocument = errors.New("invalid activitystreams document")

// StoredEntity é a forma persistida (postgres), cacheada (redis) e
// transmitida (kafka) de uma entidade: o documento JSON original.
type StoredEntity struct {
	ID        string          `json:"id"`
	IsOwner   bool            `json:"is_owner"`
	Document  json.RawMessage `json:"document"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Decode parses the stored document. The stored id wins over the document id.
func (se StoredEntity) Decode() (*Entity, error) {
	entity, err := ParseDocument(se.Document, se.IsOwner)
	if err != nil {
		return nil, err
	}
	entity.ID = se.ID
	return entity, nil
}

// ParseDocument converts a compact ActivityStreams JSON object into an Entity.
func ParseDocument(raw []byte, isOwner bool) (*Entity, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidDocument
	}

	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, ErrInvalidDocument
	}

	entity := parseObject(doc, isOwner)
	if entity.ID == "" {
		return nil, ErrInvalidDocument
	}

	return entity, nil
}

func parseObject(obj gjson.Result, isOwner bool) *Entity {
	entity := &Entity{
		IsOwner:    isOwner,
		Properties: Properties{},
	}

	obj.ForEach(func(k, v gjson.Result) bool {
		key := k.String()

		switch key {
		case "@context":
		case "id", "@id":
			entity.ID = v.String()
		case "type", "@type":
			entity.Types = parseTypes(v)
		default:
			entity.Properties[key] = parseValues(key, v, isOwner)
		}

		return true
	})

	return entity
}

func parseTypes(v gjson.Result) []string {
	var types []string
	if v.IsArray() {
		for _, t := range v.Array() {
			types = append(types, ExpandType(t.String()))
		}
		return types
	}
	return append(types, ExpandType(v.String()))
}

func parseValues(key string, v gjson.Result, isOwner bool) []Value {
	values := make([]Value, 0, 1)

	if v.IsArray() {
		for _, item := range v.Array() {
			values = append(values, parseValues(key, item, isOwner)...)
		}
		return values
	}

	if value, ok := parseValue(key, v, isOwner); ok {
		values = append(values, value)
	}

	return values
}

func parseValue(key string, v gjson.Result, isOwner bool) (Value, bool) {
	switch v.Type {
	case gjson.Null:
		return Value{}, false
	case gjson.String:
		if IsReferenceTerm(key) {
			return NewReference(v.Str), true
		}
		return NewPrimitive(v.Str), true
	case gjson.Number:
		if v.Num == math.Trunc(v.Num) && math.Abs(v.Num) < math.MaxInt64 {
			return NewPrimitive(v.Int()), true
		}
		return NewPrimitive(v.Num), true
	case gjson.True, gjson.False:
		return NewPrimitive(v.Bool()), true
	}

	// JSON-LD value object: {"@value": ...}
	if literal, ok := valueLiteral(v); ok {
		return parseValue("", literal, isOwner)
	}

	return NewEmbedded(parseObject(v, isOwner)), true
}

// gjson paths treat a leading "@" as a modifier, so the key is looked up by iteration.
func valueLiteral(obj gjson.Result) (gjson.Result, bool) {
	var literal gjson.Result
	found := false
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == "@value" {
			literal, found = v, true
			return false
		}
		return true
	})
	return literal, found
}

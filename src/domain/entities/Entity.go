package entities

import (
	"net/url"
	"slices"
)

// É o "nó" do grafo federado: um objeto ActivityStreams identificado por URI.
type Entity struct {
	ID    string   `json:"id"`
	Types []string `json:"types"`
	// IsOwner indica que este nó é a fonte autoritativa da entidade
	// (e não uma cópia em cache de um servidor remoto).
	IsOwner    bool       `json:"is_owner"`
	Properties Properties `json:"properties"`
}

func (e *Entity) HasType(typeURI string) bool {
	return slices.Contains(e.Types, typeURI)
}

// Host returns the host component of the entity id, without port.
func (e *Entity) Host() (string, bool) {
	u, err := url.Parse(e.ID)
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	return u.Hostname(), true
}

// Properties maps a property key to its ordered values. A missing key means
// "unspecified"; it is never normalized to an empty slice.
type Properties map[string][]Value

func (p Properties) Get(key string) []Value {
	return p[key]
}

func (p Properties) Has(key string) bool {
	return len(p[key]) > 0
}

func (p Properties) First(key string) (Value, bool) {
	values := p[key]
	if len(values) == 0 {
		return Value{}, false
	}
	return values[0], true
}

// FirstString returns the first value when it is a string primitive.
func (p Properties) FirstString(key string) (string, bool) {
	v, ok := p.First(key)
	if !ok {
		return "", false
	}
	s, ok := v.Primitive.(string)
	return s, ok
}

// FirstID returns the id of the first value when it is a reference with an id.
func (p Properties) FirstID(key string) (string, bool) {
	v, ok := p.First(key)
	if !ok || v.ID == "" {
		return "", false
	}
	return v.ID, true
}

// FirstLink accepts either a reference id or a string primitive.
func (p Properties) FirstLink(key string) (string, bool) {
	if id, ok := p.FirstID(key); ok {
		return id, true
	}
	return p.FirstString(key)
}

func (p Properties) FirstInt(key string) (int64, bool) {
	v, ok := p.First(key)
	if !ok {
		return 0, false
	}
	return v.Int()
}

// AnyTrue reports whether any value of key is the boolean true.
func (p Properties) AnyTrue(key string) bool {
	for _, v := range p[key] {
		if b, ok := v.Primitive.(bool); ok && b {
			return true
		}
	}
	return false
}

// ContainsID reports whether any value of key references id.
func (p Properties) ContainsID(key string, id string) bool {
	if id == "" {
		return false
	}
	for _, v := range p[key] {
		if v.ID == id {
			return true
		}
	}
	return false
}

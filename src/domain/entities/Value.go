package entities

import "math"

// Value é uma união: ou um primitivo (string, número, booleano),
// ou uma referência (id e, opcionalmente, o sub-objeto embutido).
type Value struct {
	Primitive any     `json:"primitive,omitempty"`
	ID        string  `json:"id,omitempty"`
	SubObject *Entity `json:"sub_object,omitempty"`
}

func NewPrimitive(v any) Value {
	return Value{Primitive: v}
}

func NewReference(id string) Value {
	return Value{ID: id}
}

func NewEmbedded(sub *Entity) Value {
	return Value{ID: sub.ID, SubObject: sub}
}

func (v Value) IsReference() bool {
	return v.Primitive == nil
}

// Int converts numeric primitives; non-integral floats are rejected.
func (v Value) Int() (int64, bool) {
	switch n := v.Primitive.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

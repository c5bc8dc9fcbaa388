package comparer

import (
	"encoding/json"

	"github.com/google/go-cmp/cmp"
)

// JSONDocument compares raw documents semantically, ignoring key order and spacing.
func JSONDocument() cmp.Option {
	return cmp.Comparer(func(x, y json.RawMessage) bool {
		if len(x) == 0 || len(y) == 0 {
			return len(x) == len(y)
		}

		var xObj, yObj any
		if json.Unmarshal(x, &xObj) != nil || json.Unmarshal(y, &yObj) != nil {
			return false
		}

		return cmp.Equal(xObj, yObj)
	})
}

package entities

// NotFromCollection marks an item that was resolved directly by URI.
// It must never be used as a collection lookup key.
const NotFromCollection int64 = -1

// Um item de coleção local: o número de sequência e a entidade que ele nomeia.
type CollectionItem struct {
	SequenceNumber int64   `json:"sequence_number"`
	Entity         *Entity `json:"entity"`
}

func (ci CollectionItem) FromCollection() bool {
	return ci.SequenceNumber >= 0
}

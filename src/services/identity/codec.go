// Package identity maps between the two client-facing addressing schemes
// (collection sequence numbers and percent-encoded entity URIs) and the
// lookups they resolve to.
package identity

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"mastodonbridge/src/domain"
)

// ResourceID is either a collection sequence number or a canonical entity URI.
type ResourceID struct {
	sequence   int64
	uri        string
	isSequence bool
}

func FromSequence(sequence int64) ResourceID {
	return ResourceID{sequence: sequence, isSequence: true}
}

func FromURI(uri string) ResourceID {
	return ResourceID{uri: uri}
}

// Sequence returns the collection sequence number, when this id is one.
func (r ResourceID) Sequence() (int64, bool) {
	return r.sequence, r.isSequence
}

// URI returns the canonical entity URI, when this id is one.
func (r ResourceID) URI() (string, bool) {
	return r.uri, !r.isSequence
}

// String is the opaque form handed to clients.
func (r ResourceID) String() string {
	if r.isSequence {
		return EncodeSequence(r.sequence)
	}
	return EncodeURI(r.uri)
}

// Decode resolves an opaque id. Non-negative integers are sequence numbers;
// everything else is a percent-encoded URI.
func Decode(opaqueID string) (ResourceID, error) {
	if n, err := strconv.ParseInt(opaqueID, 10, 64); err == nil && n >= 0 {
		return FromSequence(n), nil
	}

	uri, err := DecodeURI(opaqueID)
	if err != nil {
		return ResourceID{}, err
	}

	return FromURI(uri), nil
}

// DecodeURI percent-decodes an opaque id. An unencoded URI decodes to itself.
func DecodeURI(opaqueID string) (string, error) {
	uri, err := url.PathUnescape(opaqueID)
	if err != nil {
		return "", fmt.Errorf("identity.DecodeURI - %q: %w", opaqueID, domain.ErrInvalidIdentifier)
	}

	if uri == "" {
		return "", fmt.Errorf("identity.DecodeURI - empty id: %w", domain.ErrInvalidIdentifier)
	}

	return uri, nil
}

// EncodeURI escapes every byte outside the RFC 3986 unreserved set.
func EncodeURI(uri string) string {
	// QueryEscape already encodes a literal "+" as %2B, so any "+" left is a space.
	return strings.ReplaceAll(url.QueryEscape(uri), "+", "%20")
}

func EncodeSequence(sequence int64) string {
	return strconv.FormatInt(sequence, 10)
}

package entities

import "strings"

const (
	ActivityStreamsNamespace = "https://www.w3.org/ns/activitystreams#"

	// PublicAudience is the well-known collection that addresses everyone.
	PublicAudience = ActivityStreamsNamespace + "Public"

	TypeNote     = ActivityStreamsNamespace + "Note"
	TypeCreate   = ActivityStreamsNamespace + "Create"
	TypeAnnounce = ActivityStreamsNamespace + "Announce"
)

// referenceTerms are the properties whose plain string values are ids (@id-typed
// in the ActivityStreams context) rather than literals.
var referenceTerms = map[string]bool{
	"actor":        true,
	"object":       true,
	"target":       true,
	"origin":       true,
	"result":       true,
	"instrument":   true,
	"attributedTo": true,
	"inReplyTo":    true,
	"to":           true,
	"cc":           true,
	"bto":          true,
	"bcc":          true,
	"audience":     true,
	"followers":    true,
	"following":    true,
	"outbox":       true,
	"inbox":        true,
	"liked":        true,
	"likes":        true,
	"shares":       true,
	"replies":      true,
	"featured":     true,
	"url":          true,
	"icon":         true,
	"image":        true,
	"tag":          true,
	"attachment":   true,
	"generator":    true,
	"context":      true,
	"first":        true,
	"last":         true,
	"next":         true,
	"prev":         true,
	"current":      true,
	"partOf":       true,
	"items":        true,
	"orderedItems": true,
	"href":         true,
	"location":     true,
	"preview":      true,
	"endpoints":    true,
	"streams":      true,
}

func IsReferenceTerm(key string) bool {
	return referenceTerms[key]
}

// ExpandType turns compact type names ("Note", "as:Note") into full URIs.
func ExpandType(name string) string {
	if rest, ok := strings.CutPrefix(name, "as:"); ok {
		return ActivityStreamsNamespace + rest
	}
	if strings.Contains(name, ":") {
		return name
	}
	return ActivityStreamsNamespace + name
}

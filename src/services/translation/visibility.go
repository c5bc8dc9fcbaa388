package translation

import (
	"mastodonbridge/src/domain"
	"mastodonbridge/src/domain/entities"
)

// Compact forms some servers use for the public collection.
var publicAudienceAliases = []string{
	entities.PublicAudience,
	"as:Public",
	"Public",
}

// ClassifyVisibility is ordered: public addressing wins over everything,
// followers-only is inferred only when neither public nor unlisted applies.
func ClassifyVisibility(post entities.Properties, followersID string) domain.Visibility {
	switch {
	case addressesPublic(post, "to"):
		return domain.VisibilityPublic
	case addressesPublic(post, "cc"):
		return domain.VisibilityUnlisted
	case post.ContainsID("to", followersID):
		return domain.VisibilityPrivate
	default:
		return domain.VisibilityDirect
	}
}

func addressesPublic(post entities.Properties, key string) bool {
	for _, alias := range publicAudienceAliases {
		if post.ContainsID(key, alias) {
			return true
		}
	}
	return false
}

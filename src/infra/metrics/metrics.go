package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mastodon_bridge"

var (
	EntityCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entity_cache_requests_total",
		Help:      "Entity cache lookups by result (hit, miss, error).",
	}, []string{"result"})

	RemoteFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_fetches_total",
		Help:      "Remote entity fetches by outcome (fetched, failed, invalid).",
	}, []string{"outcome"})

	Translations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "translations_total",
		Help:      "Resource translations by resource and outcome.",
	}, []string{"resource", "outcome"})

	ConsumedEntityChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "consumed_entity_changes_total",
		Help:      "Entity change events applied from the stream, by operation.",
	}, []string{"operation"})
)

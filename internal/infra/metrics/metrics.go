// Package metrics exposes Prometheus collectors for the library, the object
// URL broker and the playback controller.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LibraryOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidshelf_library_operations_total",
		Help: "Total number of library operations by operation and result",
	}, []string{"operation", "result"})

	LibraryVideos = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vidshelf_library_videos",
		Help: "Number of videos currently in the library",
	})

	ObjectURLsMintedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidshelf_object_urls_minted_total",
		Help: "Total number of object URLs minted",
	})

	ObjectURLsRevokedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidshelf_object_urls_revoked_total",
		Help: "Total number of object URLs revoked",
	})

	ObjectURLsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vidshelf_object_urls_live",
		Help: "Number of object URLs currently live",
	})

	PlaybackTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidshelf_playback_transitions_total",
		Help: "Total number of playback state transitions by target state",
	}, []string{"to"})

	PlaybackStaleEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidshelf_playback_stale_events_total",
		Help: "Total number of media element events dropped because they belonged to a previous source",
	})

	ImportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidshelf_imports_total",
		Help: "Total number of watch-folder imports by result",
	}, []string{"result"})

	NotificationDropsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidshelf_notification_drops_total",
		Help: "Total number of notifications dropped because a subscriber was slow",
	})
)

// IncLibraryOp records a library operation outcome.
func IncLibraryOp(operation, result string) {
	if operation == "" {
		operation = "unknown"
	}
	if result == "" {
		result = "unknown"
	}
	LibraryOperationsTotal.WithLabelValues(operation, result).Inc()
}

// SetLibrarySize records the number of videos in the library.
func SetLibrarySize(n int) {
	LibraryVideos.Set(float64(n))
}

// ObserveMint records a minted object URL.
func ObserveMint() {
	ObjectURLsMintedTotal.Inc()
	ObjectURLsLive.Inc()
}

// ObserveRevoke records a revoked object URL.
func ObserveRevoke() {
	ObjectURLsRevokedTotal.Inc()
	ObjectURLsLive.Dec()
}

// IncPlaybackTransition records a transition into the named state.
func IncPlaybackTransition(to string) {
	PlaybackTransitionsTotal.WithLabelValues(to).Inc()
}

// IncStaleEvent records a dropped stale media element event.
func IncStaleEvent() {
	PlaybackStaleEventsTotal.Inc()
}

// IncImport records a watch-folder import outcome.
func IncImport(result string) {
	ImportsTotal.WithLabelValues(result).Inc()
}

// IncNotificationDrop records a notification dropped for a slow subscriber.
func IncNotificationDrop() {
	NotificationDropsTotal.Inc()
}

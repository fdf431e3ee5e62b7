package metrics

import (
	"expvar"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Expvar counters for the ingestion pipeline
	IngestEventReceived  = expvar.NewInt("ingest_event_received")
	IngestRecordInserted = expvar.NewInt("ingest_record_inserted")
	IngestDuplicateSkip  = expvar.NewInt("ingest_duplicate_skip")
	IngestPostDropped    = expvar.NewInt("ingest_post_dropped")
	IngestAwaitingEmbed  = expvar.NewInt("ingest_awaiting_embed")
	AckSent              = expvar.NewInt("ack_sent")
	AckSuppressedStale   = expvar.NewInt("ack_suppressed_stale")
	DiscordMessageSent   = expvar.NewInt("discord_message_sent")
	SpotifyLookupSuccess = expvar.NewInt("spotify_lookup_success")
	SpotifyLookupFailed  = expvar.NewInt("spotify_lookup_failed")

	// Prometheus metrics with labels
	IngestOutcomeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_outcome_total",
			Help: "Ingestion outcomes by channel kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	DiscordCommandTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discord_command_total",
			Help: "Total number of Discord commands invoked by command type",
		},
		[]string{"command"},
	)

	DiscordCommandErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discord_command_errors",
			Help: "Total number of Discord command errors by command type",
		},
		[]string{"command"},
	)

	DiscordCommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discord_command_duration_seconds",
			Help:    "Duration of Discord command execution in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	ReplayDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "replay_duration_seconds",
			Help:    "Duration of historical channel replays in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
)

type Server struct {
	*http.Server
}

func SetupServer(addr string) *Server {

	// pprof is setup by importing the net/http/pprof package
	server := &http.Server{
		Addr:         addr,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// setup expvar cache
	IngestEventReceived.Set(0)
	IngestRecordInserted.Set(0)
	IngestDuplicateSkip.Set(0)
	IngestPostDropped.Set(0)
	IngestAwaitingEmbed.Set(0)
	AckSent.Set(0)
	AckSuppressedStale.Set(0)
	DiscordMessageSent.Set(0)
	SpotifyLookupSuccess.Set(0)
	SpotifyLookupFailed.Set(0)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewExpvarCollector(
			map[string]*prometheus.Desc{
				"ingest_event_received":  prometheus.NewDesc("ingest_event_received", "number of inbound message and edit events seen", nil, nil),
				"ingest_record_inserted": prometheus.NewDesc("ingest_record_inserted", "number of records persisted", nil, nil),
				"ingest_duplicate_skip":  prometheus.NewDesc("ingest_duplicate_skip", "number of inserts skipped as already stored", nil, nil),
				"ingest_post_dropped":    prometheus.NewDesc("ingest_post_dropped", "number of posts dropped by parsing or persistence failures", nil, nil),
				"ingest_awaiting_embed":  prometheus.NewDesc("ingest_awaiting_embed", "number of posts parked waiting for an embed edit", nil, nil),
				"ack_sent":               prometheus.NewDesc("ack_sent", "number of confirmation messages sent", nil, nil),
				"ack_suppressed_stale":   prometheus.NewDesc("ack_suppressed_stale", "number of confirmations suppressed for stale posts", nil, nil),
				"discord_message_sent":   prometheus.NewDesc("discord_message_sent", "number of messages sent to discord", nil, nil),
				"spotify_lookup_success": prometheus.NewDesc("spotify_lookup_success", "number of successful spotify artist lookups", nil, nil),
				"spotify_lookup_failed":  prometheus.NewDesc("spotify_lookup_failed", "number of failed spotify artist lookups", nil, nil),
			},
		),
		IngestOutcomeTotal,
		DiscordCommandTotal,
		DiscordCommandErrors,
		DiscordCommandDuration,
		ReplayDuration,
	)

	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	http.HandleFunc("/healthz", healthzHandler)
	return &Server{server}
}

// healthzHandler returns a simple health check response
func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) Run() error {
	err := s.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

package monitoring

import (
	"time"

	"camdeck/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	observersConnected prometheus.Gauge
	observersTotal     prometheus.Counter

	commandsTotal   *prometheus.CounterVec
	eventsBroadcast *prometheus.CounterVec

	broadcastFanout   prometheus.Histogram
	handshakeDuration prometheus.Histogram

	recordingsSaved      prometheus.Counter
	recordingUploadBytes prometheus.Counter
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		observersConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "camdeck_observers_connected",
			Help: "Number of currently subscribed push-channel observers",
		}),

		observersTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "camdeck_observers_total",
			Help: "Total number of push-channel subscriptions since start",
		}),

		commandsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "camdeck_camera_commands_total",
			Help: "Total number of camera commands processed",
		}, []string{"command", "outcome"}),

		eventsBroadcast: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "camdeck_events_broadcast_total",
			Help: "Total number of events fanned out to observers",
		}, []string{"kind"}),

		broadcastFanout: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "camdeck_broadcast_fanout_observers",
			Help:    "Number of observers reached per broadcast",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),

		handshakeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "camdeck_connect_handshake_duration_seconds",
			Help:    "Duration of simulated camera connect handshakes",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8),
		}),

		recordingsSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "camdeck_recordings_saved_total",
			Help: "Total number of recordings saved",
		}),

		recordingUploadBytes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "camdeck_recording_upload_bytes_total",
			Help: "Total bytes of uploaded recording files",
		}),
	}
}

func (p *PrometheusCollector) RecordObserverSubscribed() {
	if p == nil {
		return
	}
	p.observersConnected.Inc()
	p.observersTotal.Inc()
}

func (p *PrometheusCollector) RecordObserverUnsubscribed() {
	if p == nil {
		return
	}
	p.observersConnected.Dec()
}

func (p *PrometheusCollector) RecordCommand(command string, err error) {
	if p == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.commandsTotal.WithLabelValues(command, outcome).Inc()
}

func (p *PrometheusCollector) RecordBroadcast(kind domain.EventKind, observers int) {
	if p == nil {
		return
	}
	p.eventsBroadcast.WithLabelValues(string(kind)).Inc()
	p.broadcastFanout.Observe(float64(observers))
}

func (p *PrometheusCollector) RecordHandshake(d time.Duration) {
	if p == nil {
		return
	}
	p.handshakeDuration.Observe(d.Seconds())
}

func (p *PrometheusCollector) RecordRecordingSaved(sizeBytes int64) {
	if p == nil {
		return
	}
	p.recordingsSaved.Inc()
	if sizeBytes > 0 {
		p.recordingUploadBytes.Add(float64(sizeBytes))
	}
}

package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess     = "success"
	outcomeClientError = "client_error"
	outcomeServerError = "server_error"
)

var (
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "godenoise_uploads_total",
		Help: "Total number of upload requests, by outcome",
	}, []string{"outcome"})

	FramesGeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "godenoise_frames_generated_total",
		Help: "Total number of frames generated, by schedule",
	}, []string{"schedule"})

	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "godenoise_generation_duration_seconds",
		Help:    "Duration of frame sequence generation per upload",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	FrameLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "godenoise_frame_lookups_total",
		Help: "Total number of frame lookups, by result",
	}, []string{"result"})

)

const storedFramesTimeout = 5 * time.Second

var storedFramesDesc = prometheus.NewDesc(
	"godenoise_stored_frames",
	"Number of frames currently retrievable from the frame store",
	nil, nil,
)

// StoredFramesCollector counts stored frames when scraped rather than per upload
type StoredFramesCollector struct {
	service *CoreService
}

func NewStoredFramesCollector(service *CoreService) *StoredFramesCollector {
	return &StoredFramesCollector{service: service}
}

func (c *StoredFramesCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- storedFramesDesc
}

func (c *StoredFramesCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), storedFramesTimeout)
	defer cancel()

	count, err := c.service.StoredFrames(ctx)
	if err != nil {
		slog.Warn("failed to count stored frames", "error", err)
		ch <- prometheus.NewInvalidMetric(storedFramesDesc, err)
		return
	}
	ch <- prometheus.MustNewConstMetric(storedFramesDesc, prometheus.GaugeValue, float64(count))
}

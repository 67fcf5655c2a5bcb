package hlod

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hlod",
		Name:      "stage_duration_seconds",
		Help:      "Time spent in each bake stage.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"stage"})

	bakesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hlod",
		Name:      "bakes_total",
		Help:      "Finished bakes by outcome.",
	}, []string{"outcome"})

	buildInfosPruned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hlod",
		Name:      "build_infos_pruned_total",
		Help:      "Build records dropped because no working object survived extraction.",
	})

	workingObjectsPerInfo = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hlod",
		Name:      "working_objects",
		Help:      "Working objects per surviving build record.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})
)

const (
	stageSplit      = "split"
	stagePreProcess = "preprocess"
	stageSimplify   = "simplify"
	stageBatch      = "batch"
	stageBuild      = "build"
	stageUserData   = "userdata"
	stageDestroy    = "destroy"
)

func observeStage(stage string, start time.Time) time.Duration {
	elapsed := time.Since(start)
	stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	return elapsed
}

func outcome(err error) string {
	var cfgErr *ConfigError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &cfgErr):
		return "config_error"
	default:
		return "error"
	}
}

package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

const (
	namespace = "orgmanager"
	subsystem = "github"

	labelOperation = "operation"
	labelStatus    = "status"
	labelOutcome   = "outcome"
)

var (
	apiCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_calls",
		Help:      "GitHub API calls by operation and response status code",
	}, []string{labelOperation, labelStatus})

	pagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "pages_fetched",
		Help:      "Pages fetched while walking paginated list responses",
	})

	offboardings = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "membership",
		Name:      "offboardings",
		Help:      "Offboarding runs by outcome",
	}, []string{labelOutcome})
)

func inc(vec *prometheus.CounterVec, labelValues ...string) {
	m, err := vec.GetMetricWithLabelValues(labelValues...)
	if err != nil {
		log.Warnf("get metric: %v", err)
	} else {
		m.Inc()
	}
}

func IncApiCalls(operation string, statusCode int) {
	inc(apiCalls, operation, strconv.Itoa(statusCode))
}

func IncPagesFetched() {
	pagesFetched.Inc()
}

func IncOffboardings(outcome string) {
	inc(offboardings, outcome)
}

package asset

import (
	"tidal-client/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var workflowOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tidal",
	Subsystem: "client",
	Name:      "workflow_outcomes_total",
	Help:      "Terminal outcomes of publish/order/consume workflow invocations.",
}, []string{"workflow", "outcome"})

func observe(workflow string, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case types.IsBusinessErr(err):
		outcome = "rejected"
	default:
		outcome = "failed"
	}
	workflowOutcomes.WithLabelValues(workflow, outcome).Inc()
}

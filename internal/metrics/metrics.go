package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APIRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "epolice_api_requests_total",
		Help: "Total REST backend requests by method",
	}, []string{"method"})
	APIFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "epolice_api_fail_total",
		Help: "Total REST backend failures by method",
	}, []string{"method"})
	APIDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "epolice_api_duration_ms",
		Help:    "REST backend call duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 2000},
	})
	ListFetchTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "epolice_list_fetch_total",
		Help: "Total page fetches issued by list controllers",
	})
	ListFetchFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "epolice_list_fetch_fail_total",
		Help: "Total page fetches that ended in error",
	})
	StaleDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "epolice_stale_dropped_total",
		Help: "Total fetch responses discarded as stale",
	})
	CascadeLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "epolice_cascade_loads_total",
		Help: "Total option-list loads by cascade level",
	}, []string{"level"})
	CascadePrewarmTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "epolice_cascade_prewarm_total",
		Help: "Total resolver prewarm operations for edit sessions",
	})
	MutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "epolice_mutations_total",
		Help: "Total add/update/delete operations by kind",
	}, []string{"kind"})
	MutationFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "epolice_mutation_fail_total",
		Help: "Total failed add/update/delete operations by kind",
	}, []string{"kind"})
	ExportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "epolice_exports_total",
		Help: "Total client-side exports by format",
	}, []string{"format"})
)

func init() {
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIFailTotal)
	prometheus.MustRegister(APIDurationMs)
	prometheus.MustRegister(ListFetchTotal)
	prometheus.MustRegister(ListFetchFailTotal)
	prometheus.MustRegister(StaleDroppedTotal)
	prometheus.MustRegister(CascadeLoadsTotal)
	prometheus.MustRegister(CascadePrewarmTotal)
	prometheus.MustRegister(MutationsTotal)
	prometheus.MustRegister(MutationFailTotal)
	prometheus.MustRegister(ExportsTotal)
}

// Handler exposes the registered metrics for scraping; mounted by the CLI
// watch command.
func Handler() http.Handler { return promhttp.Handler() }

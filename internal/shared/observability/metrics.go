package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	PassDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "depscan_pass_seconds",
		Help:    "Time spent running one analysis pass over all files.",
		Buckets: prometheus.DefBuckets,
	}, []string{"pass"})

	FilesAnalyzed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "depscan_files_analyzed_total",
		Help: "Total number of files processed, by pass.",
	}, []string{"pass"})

	FileErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "depscan_file_failures_total",
		Help: "Total number of files skipped because of an error, by pass and error code.",
	}, []string{"pass", "code"})

	SemiExpressions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "depscan_semi_expressions_total",
		Help: "Total number of semi-expressions handed to the rule engine, by pass.",
	}, []string{"pass"})

	SemiCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depscan_semi_cache_hits_total",
		Help: "Total number of files whose semi-expressions were served from cache.",
	})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscan_graph_nodes_total",
		Help: "Total number of file nodes in the dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscan_graph_edges_total",
		Help: "Total number of dependency edges in the graph.",
	})

	TypesDeclared = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscan_types_declared",
		Help: "Number of type declarations in the type table after the last run.",
	})

	StrongComponents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscan_strong_components",
		Help: "Number of strongly connected components after the last run.",
	})

	CyclicComponents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscan_cyclic_components",
		Help: "Number of components that contain a dependency cycle.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depscan_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	HistoryWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depscan_history_writes_total",
		Help: "Total number of run snapshots persisted to the history store.",
	})
)

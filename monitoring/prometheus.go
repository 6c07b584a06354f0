package monitoring

import (
	"net/http"
	"time"

	"github.com/mezonai/powledger/logx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ResolveOutcome string

var (
	ResolveReplaced      ResolveOutcome = "replaced"
	ResolveAuthoritative ResolveOutcome = "authoritative"
)

type CandidateRejectedReason string

var (
	CandidateNotLonger       CandidateRejectedReason = "not_longer"
	CandidateInvalid         CandidateRejectedReason = "invalid"
	CandidatePeerUnreachable CandidateRejectedReason = "peer_unreachable"
)

type nodePromMetrics struct {
	nodeUpUnixSeconds  prometheus.Gauge
	pendingSize        prometheus.Gauge
	chainHeight        prometheus.Gauge
	miningDuration     prometheus.Histogram
	minedBlockCount    prometheus.Counter
	abortedMiningCount prometheus.Counter
	txInBlock          prometheus.Histogram
	submittedTxCount   prometheus.Counter
	rejectedTxCount    prometheus.Counter
	resolveCount       *prometheus.CounterVec
	rejectedCandidates *prometheus.CounterVec
	peerCount          prometheus.Gauge
	panicCount         prometheus.Counter
}

func newNodePromMetrics() *nodePromMetrics {
	return &nodePromMetrics{
		nodeUpUnixSeconds: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "powledger_node_up_timestamp_unix_seconds",
				Help: "Unix timestamp of the node",
			},
		),
		pendingSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "powledger_node_pending_size",
				Help: "The number of transactions waiting in the pending buffer",
			},
		),
		chainHeight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "powledger_node_chain_length",
				Help: "The current number of blocks in the local chain, genesis included",
			},
		),
		miningDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "powledger_node_mining_seconds",
				Help:    "Duration in second of a proof-of-work search",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
		minedBlockCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "powledger_node_mined_block_count",
				Help: "The total number of blocks mined by this node",
			},
		),
		abortedMiningCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "powledger_node_aborted_mining_count",
				Help: "The total number of mining rounds abandoned before a proof was found",
			},
		),
		txInBlock: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name: "powledger_node_tx_in_block",
				Help: "Number of tx in mined block, reward included",
			},
		),
		submittedTxCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "powledger_node_submitted_tx_count",
				Help: "The total number of transactions accepted into the pending buffer",
			},
		),
		rejectedTxCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "powledger_node_rejected_tx_count",
				Help: "The total number of transactions rejected for an invalid amount",
			},
		),
		resolveCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "powledger_node_resolve_count",
				Help: "The total number of consensus rounds by outcome",
			},
			[]string{"outcome"},
		),
		rejectedCandidates: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "powledger_node_rejected_candidate_count",
				Help: "The total number of candidate chains not adopted",
			},
			[]string{"reason"},
		),
		peerCount: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "powledger_node_peer_count",
				Help: "The total number of registered peers",
			},
		),
		panicCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "powledger_node_panic_count",
				Help: "The total number of recovered goroutine panics",
			},
		),
	}
}

// Metrics are registered on the default registry at package load so recording is always safe.
var nodeMetrics = newNodePromMetrics()

// InitMetrics stamps the node start time.
func InitMetrics() {
	nodeMetrics.nodeUpUnixSeconds.SetToCurrentTime()
}

func RegisterMetrics(mux *http.ServeMux) {
	logx.Info("MONITORING", "Registering prometheus metrics")
	mux.Handle("/metrics", promhttp.Handler())
}

func SetPendingSize(size int) {
	nodeMetrics.pendingSize.Set(float64(size))
}

func SetChainLength(length int) {
	nodeMetrics.chainHeight.Set(float64(length))
}

func RecordMiningDuration(duration time.Duration) {
	nodeMetrics.miningDuration.Observe(duration.Seconds())
}

func IncreaseMinedBlockCount() {
	nodeMetrics.minedBlockCount.Inc()
}

func IncreaseAbortedMiningCount() {
	nodeMetrics.abortedMiningCount.Inc()
}

func RecordTxInBlock(txCount int) {
	nodeMetrics.txInBlock.Observe(float64(txCount))
}

func IncreaseSubmittedTxCount() {
	nodeMetrics.submittedTxCount.Inc()
}

func IncreaseRejectedTxCount() {
	nodeMetrics.rejectedTxCount.Inc()
}

func RecordResolve(outcome ResolveOutcome) {
	nodeMetrics.resolveCount.With(prometheus.Labels{
		"outcome": string(outcome),
	}).Inc()
}

func RecordRejectedCandidate(reason CandidateRejectedReason) {
	nodeMetrics.rejectedCandidates.With(prometheus.Labels{
		"reason": string(reason),
	}).Inc()
}

func SetPeerCount(peers int) {
	nodeMetrics.peerCount.Set(float64(peers))
}

func IncreasePanicCount() {
	nodeMetrics.panicCount.Inc()
}

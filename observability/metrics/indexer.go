package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// IndexerMetrics tracks event replay progress and the drops mandated by the
// silent-skip error policy.
type IndexerMetrics struct {
	processed     *prometheus.CounterVec
	skips         *prometheus.CounterVec
	ideaMutations *prometheus.CounterVec
	cursorBlock   prometheus.Gauge
}

var (
	indexerOnce     sync.Once
	indexerRegistry *IndexerMetrics
)

// Indexer returns the process-wide indexer metrics, registering them on first
// use.
func Indexer() *IndexerMetrics {
	indexerOnce.Do(func() {
		indexerRegistry = &IndexerMetrics{
			processed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "srxgraph_events_processed_total",
				Help: "Count of contract events applied to the entity store by type.",
			}, []string{"type"}),
			skips: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "srxgraph_event_skips_total",
				Help: "Count of events or sub-operations dropped by reason.",
			}, []string{"reason"}),
			ideaMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "srxgraph_idea_mutations_total",
				Help: "Count of structural idea tree mutations by operation.",
			}, []string{"op"}),
			cursorBlock: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "srxgraph_cursor_block",
				Help: "Block number of the last applied event.",
			}),
		}
		prometheus.MustRegister(
			indexerRegistry.processed,
			indexerRegistry.skips,
			indexerRegistry.ideaMutations,
			indexerRegistry.cursorBlock,
		)
	})
	return indexerRegistry
}

// MarkProcessed records one applied event of the given type.
func (m *IndexerMetrics) MarkProcessed(eventType string) {
	m.processed.WithLabelValues(eventType).Inc()
}

// MarkSkip records one dropped event or sub-operation.
func (m *IndexerMetrics) MarkSkip(reason string) {
	m.skips.WithLabelValues(reason).Inc()
}

// MarkIdeaMutation records one structural tree mutation.
func (m *IndexerMetrics) MarkIdeaMutation(op string) {
	m.ideaMutations.WithLabelValues(op).Inc()
}

// SetCursorBlock publishes the replay cursor's block number.
func (m *IndexerMetrics) SetCursorBlock(block uint64) {
	m.cursorBlock.Set(float64(block))
}

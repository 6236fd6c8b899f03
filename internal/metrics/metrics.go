// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// パイプラインやミドルウェア層から利用する。
type MetricsCollector interface {
	RecordPipelineSuccess()
	RecordPipelineFailure(stage string)
	RecordStageLatency(stage string, duration time.Duration)
	RecordTranslationFallback()
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	pipelineSuccess     prometheus.Counter
	pipelineFail        *prometheus.CounterVec
	stageLatency        *prometheus.HistogramVec
	translationFallback prometheus.Counter
	httpStatus          *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		pipelineSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tubesum_pipeline_success_total",
			Help: "要約パイプライン成功の合計数",
		}),
		pipelineFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tubesum_pipeline_fail_total",
			Help: "要約パイプライン失敗のステージ別合計数",
		}, []string{"stage"}),
		stageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tubesum_stage_latency_seconds",
			Help:    "パイプラインステージごとのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		translationFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tubesum_translation_fallback_total",
			Help: "翻訳失敗により英語のまま返した件数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tubesum_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.pipelineSuccess,
		c.pipelineFail,
		c.stageLatency,
		c.translationFallback,
		c.httpStatus,
	)

	return c
}

// RecordPipelineSuccess はパイプライン成功を記録する。
func (c *Collector) RecordPipelineSuccess() {
	c.pipelineSuccess.Inc()
}

// RecordPipelineFailure は失敗したステージ名とともにパイプライン失敗を記録する。
func (c *Collector) RecordPipelineFailure(stage string) {
	c.pipelineFail.WithLabelValues(stage).Inc()
}

// RecordStageLatency はステージのレイテンシを記録する。
func (c *Collector) RecordStageLatency(stage string, duration time.Duration) {
	c.stageLatency.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordTranslationFallback は翻訳の縮退発生を記録する。
func (c *Collector) RecordTranslationFallback() {
	c.translationFallback.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
// ルーターの/metricsパスにマウントして使用する。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)

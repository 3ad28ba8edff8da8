package metrics

import "github.com/prometheus/client_golang/prometheus"

// RegisterPrometheusMetrics register all prometheus metrics with the global
// metrics handler.
func RegisterPrometheusMetrics() {
	for _, c := range collectors {
		_ = prometheus.Register(c)
	}
}

// Prometheus metric names broken out for reuse.
const (
	EncodeTimeName      = "encode_time_sec"
	DecodeTimeName      = "decode_time_sec"
	EncodedBytesName    = "encoded_bytes"
	CodecRequestsName   = "codec_requests_total"
	CodecErrorsName     = "codec_errors_total"
	TypeCacheHitsName   = "type_cache_hits_total"
	TypeCacheMissesName = "type_cache_misses_total"
)

// Label values of the operation label.
const (
	EncodeOperation = "encode"
	DecodeOperation = "decode"
	MethodOperation = "method"
)

// Initialize the prometheus objects.
var (
	// AllMetricNames is a reference for all the custom metric names.
	AllMetricNames = []string{
		EncodeTimeName,
		DecodeTimeName,
		EncodedBytesName,
		CodecRequestsName,
		CodecErrorsName,
		TypeCacheHitsName,
		TypeCacheMissesName}

	EncodeTimeSeconds = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Subsystem: "abicodec",
			Name:      EncodeTimeName,
			Help:      "Time in seconds spent encoding a value.",
		})

	DecodeTimeSeconds = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Subsystem: "abicodec",
			Name:      DecodeTimeName,
			Help:      "Time in seconds spent decoding a value.",
		})

	EncodedBytes = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Subsystem: "abicodec",
			Name:      EncodedBytesName,
			Help:      "Size of the encodings produced or consumed.",
		})

	CodecRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: "abicodec",
			Name:      CodecRequestsName,
			Help:      "Codec operations by operation.",
		}, []string{"operation"})

	CodecErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: "abicodec",
			Name:      CodecErrorsName,
			Help:      "Failed codec operations by operation.",
		}, []string{"operation"})

	TypeCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Subsystem: "abicodec",
			Name:      TypeCacheHitsName,
			Help:      "Type strings served from the parsed type cache.",
		})

	TypeCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Subsystem: "abicodec",
			Name:      TypeCacheMissesName,
			Help:      "Type strings parsed because they were not cached.",
		})

	collectors = []prometheus.Collector{
		EncodeTimeSeconds,
		DecodeTimeSeconds,
		EncodedBytes,
		CodecRequests,
		CodecErrors,
		TypeCacheHits,
		TypeCacheMisses,
	}
)

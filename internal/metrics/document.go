// SPDX-License-Identifier: MIT
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	documentConversions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flipbook_document_conversions_total",
		Help: "Document conversions by file type and outcome",
	}, []string{"type", "outcome"}) // outcome=success|failed|rejected

	documentConversionSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flipbook_document_conversion_duration_seconds",
		Help:    "Time spent converting a source file into pages",
		Buckets: prometheus.DefBuckets,
	})

	documentCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flipbook_document_cache_total",
		Help: "Converted-document cache lookups by result",
	}, []string{"result"}) // result=hit|miss
)

func IncDocumentConversion(fileType, outcome string) {
	documentConversions.WithLabelValues(fileType, outcome).Inc()
}

func ObserveDocumentConversion(d time.Duration) {
	documentConversionSeconds.Observe(d.Seconds())
}

func IncDocumentCache(hit bool) {
	if hit {
		documentCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	documentCacheTotal.WithLabelValues("miss").Inc()
}

// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mensad_fetch_total",
		Help: "Plan fetches by result (success, error, unchanged).",
	}, []string{"result"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mensad_fetch_duration_seconds",
		Help:    "End-to-end duration of plan fetches.",
		Buckets: prometheus.DefBuckets,
	})

	downloadRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mensad_download_retries_total",
		Help: "Download attempts that failed and were retried.",
	})

	lastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mensad_fetch_last_success_timestamp_seconds",
		Help: "Unix time of the last successful fetch.",
	})
)

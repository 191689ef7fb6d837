// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mensad_http_requests_total",
		Help: "HTTP requests served, by route pattern and status code.",
	}, []string{"route", "code"})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mensad_http_rate_limited_total",
		Help: "Requests rejected by the per-client rate limiter.",
	})
)

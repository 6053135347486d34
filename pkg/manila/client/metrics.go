// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/LeeDigitalWorks/manilago/pkg/debug"
)

var (
	metricsOnce sync.Once

	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "manilago",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "API requests by method and status code.",
		},
		[]string{"method", "code"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "manilago",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "API request latency by method.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	retriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "manilago",
			Subsystem: "client",
			Name:      "retries_total",
			Help:      "Requests retried after a transient failure.",
		},
	)
)

func registerMetrics() {
	metricsOnce.Do(func() {
		debug.Registry().MustRegister(requestsTotal, requestDuration, retriesTotal)
	})
}

func observeRequest(method string, code int, elapsed time.Duration) {
	requestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

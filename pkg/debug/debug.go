// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

// Package debug exposes an optional diagnostics endpoint: prometheus metrics
// for the API transport plus pprof. The CLI serves it only when asked to
// (long-running waits, soak testing); library consumers can mount Handler on
// their own mux.
package debug

import (
	"net/http"
	"net/http/pprof"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registryOnce   sync.Once
	globalRegistry *prometheus.Registry
)

// Registry returns the process-wide metrics registry. Transport metrics
// register here.
func Registry() *prometheus.Registry {
	registryOnce.Do(func() {
		globalRegistry = prometheus.NewRegistry()
		globalRegistry.MustRegister(collectors.NewGoCollector())
	})
	return globalRegistry
}

// Handler returns the diagnostics mux: /metrics, /debug/pprof/*.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// Serve blocks serving the diagnostics mux on addr.
func Serve(addr string) error {
	return http.ListenAndServe(addr, Handler())
}

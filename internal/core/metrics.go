// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	files    *prometheus.CounterVec
	bytes    prometheus.Counter
	duration prometheus.Histogram
}

// newMetrics registers on reg, a nil reg leaves them unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)

	return &metrics{
		files: f.NewCounterVec(prometheus.CounterOpts{
			Name: "slicecrc_files_total",
			Help: "Inputs checksummed, by status.",
		}, []string{"status"}),
		bytes: f.NewCounter(prometheus.CounterOpts{
			Name: "slicecrc_bytes_total",
			Help: "Bytes checksummed.",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "slicecrc_hash_duration_seconds",
			Help:    "Time to read and checksum one input.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
}

func (m *metrics) record(r Result) {
	if r.Err != nil {
		m.files.WithLabelValues("error").Inc()
		return
	}

	m.files.WithLabelValues("ok").Inc()
	m.bytes.Add(float64(r.Size))
}

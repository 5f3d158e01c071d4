// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

//
// Based on the flowrate package written by Maxim Khitrov (November 2012)
//

// Package flowrate measures the throughput of a byte stream.
package flowrate

import (
	"io"
	"math"
	"sync"
	"time"
)

// Monitor tracks how many bytes went through and how fast.
type Monitor struct {
	mu      sync.Mutex
	active  bool
	start   time.Duration // clock() at start
	total   int64         // bytes accounted into finished samples
	expect  int64         // bytes expected in total, 0 if unknown
	samples int64

	rSample float64 // most recent rate sample
	rEMA    float64 // exponential moving average of rSample
	rPeak   float64
	rWindow float64 // EMA window in seconds

	sBytes int64 // bytes since sLast
	sLast  time.Duration
	sRate  time.Duration

	tLast time.Duration // last time at least 1 byte was seen
}

// New creates a monitor sampling every sampleRate, windowSize is the weight of
// each sample in the moving average:
//
//	weight  = 1 - exp(-sampleTime/windowSize)
//	newRate = weight*sampleRate + (1-weight)*oldRate
//
// Non-positive values default to 100ms and 1s.
func New(sampleRate, windowSize time.Duration) *Monitor {
	if sampleRate = clockRound(sampleRate); sampleRate <= 0 {
		sampleRate = 5 * clockRate
	}
	if windowSize <= 0 {
		windowSize = time.Second
	}
	now := clock()
	return &Monitor{
		active:  true,
		start:   now,
		rWindow: windowSize.Seconds(),
		sLast:   now,
		sRate:   sampleRate,
		tLast:   now,
	}
}

// SetTotal sets the number of bytes expected, enabling Status.BytesRem and Status.TimeRem.
func (m *Monitor) SetTotal(n int64) {
	m.mu.Lock()
	m.expect = n
	m.mu.Unlock()
}

// Update records n bytes and returns n.
func (m *Monitor) Update(n int) int {
	m.mu.Lock()
	m.update(n)
	m.mu.Unlock()
	return n
}

// IO wraps a Read or Write call: m.IO(r.Read(p)).
func (m *Monitor) IO(n int, err error) (int, error) {
	return m.Update(n), err
}

type wrappedReader struct {
	r io.Reader
	m *Monitor
}

func (w wrappedReader) Read(p []byte) (int, error) {
	return w.m.IO(w.r.Read(p))
}

func (m *Monitor) WrapReader(r io.Reader) io.Reader {
	return wrappedReader{r: r, m: m}
}

// Done stops the monitor and returns the number of bytes seen.
// Rates in later Status calls stay frozen.
func (m *Monitor) Done() int64 {
	m.mu.Lock()
	if now := m.update(0); m.sBytes > 0 {
		m.reset(now)
	}
	m.active = false
	m.tLast = 0
	n := m.total
	m.mu.Unlock()
	return n
}

const timeRemLimit = 999*time.Hour + 59*time.Minute + 59*time.Second

// Status is a snapshot of a Monitor, rates are bytes per second.
type Status struct {
	Start    time.Time
	Duration time.Duration
	Idle     time.Duration
	Total    int64
	Samples  int64
	InstRate int64
	CurRate  int64
	AvgRate  int64
	PeakRate int64
	BytesRem int64
	TimeRem  time.Duration
	Active   bool
}

func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.update(0)
	s := Status{
		Active:   m.active,
		Start:    clockToTime(m.start),
		Duration: m.sLast - m.start,
		Idle:     now - m.tLast,
		Total:    m.total,
		Samples:  m.samples,
		PeakRate: round(m.rPeak),
	}

	if m.expect > 0 {
		s.BytesRem = max(m.expect-m.total-m.sBytes, 0)
	}

	if s.Duration <= 0 {
		return s
	}

	rAvg := float64(s.Total) / s.Duration.Seconds()
	s.AvgRate = round(rAvg)
	if !s.Active {
		return s
	}

	s.InstRate = round(m.rSample)
	s.CurRate = round(m.rEMA)
	if s.BytesRem > 0 {
		if tRate := 0.8*m.rEMA + 0.2*rAvg; tRate > 0 {
			ns := min(float64(s.BytesRem)/tRate*1e9, float64(timeRemLimit))
			s.TimeRem = clockRound(time.Duration(ns))
		}
	}

	return s
}

// update closes the current sample once clock() - m.sLast >= m.sRate.
func (m *Monitor) update(n int) (now time.Duration) {
	if !m.active {
		return
	}
	if now = clock(); n > 0 {
		m.tLast = now
	}
	m.sBytes += int64(n)
	if sTime := now - m.sLast; sTime >= m.sRate {
		t := sTime.Seconds()
		if m.rSample = float64(m.sBytes) / t; m.rSample > m.rPeak {
			m.rPeak = m.rSample
		}

		if m.samples > 0 {
			w := math.Exp(-t / m.rWindow)
			m.rEMA = m.rSample + w*(m.rEMA-m.rSample)
		} else {
			m.rEMA = m.rSample
		}
		m.reset(now)
	}
	return
}

func (m *Monitor) reset(sampleTime time.Duration) {
	m.total += m.sBytes
	m.samples++
	m.sBytes = 0
	m.sLast = sampleTime
}

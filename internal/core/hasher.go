// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package core

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/juju/ratelimit"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"github.com/trim21/errgo"
	"go.uber.org/atomic"
	"golang.org/x/sync/semaphore"

	"slicecrc/internal/config"
	"slicecrc/internal/pkg/crc32"
	"slicecrc/internal/pkg/flowrate"
	"slicecrc/internal/pkg/gfs"
	"slicecrc/internal/pkg/mempool"
)

// Hasher reads inputs on a worker pool and checksums them.
type Hasher struct {
	// Stdin is read for the "-" target.
	Stdin io.Reader

	pool     *ants.Pool
	inflight *semaphore.Weighted
	limiter  *ratelimit.Bucket
	metrics  *metrics
	monitor  atomic.Pointer[flowrate.Monitor]

	cfg config.Hash
}

func New(cfg config.Hash, reg prometheus.Registerer) (*Hasher, error) {
	pool, err := ants.NewPool(cfg.Workers, ants.WithPreAlloc(true))
	if err != nil {
		return nil, errgo.Wrap(err, "failed to create worker pool")
	}

	h := &Hasher{
		Stdin:    os.Stdin,
		pool:     pool,
		inflight: semaphore.NewWeighted(int64(cfg.MaxInflight)),
		limiter:  gfs.NewLimiter(int64(cfg.RateLimit)),
		metrics:  newMetrics(reg),
		cfg:      cfg,
	}
	h.monitor.Store(flowrate.New(0, 0))

	return h, nil
}

func (h *Hasher) Close() {
	h.pool.Release()
}

// Progress returns throughput of the current (or last) Run.
func (h *Hasher) Progress() flowrate.Status {
	return h.monitor.Load().Status()
}

// Run checksums targets with the worker pool and calls emit once per target,
// in the order of targets.
func (h *Hasher) Run(ctx context.Context, targets []Target, emit func(Result)) Summary {
	start := time.Now()

	m := flowrate.New(0, 0)
	m.SetTotal(totalSize(targets))
	h.monitor.Store(m)

	slots := make([]chan Result, len(targets))
	for i := range slots {
		slots[i] = make(chan Result, 1)
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		for i, t := range targets {
			err := h.pool.Submit(func() {
				slots[i] <- h.safeSum(ctx, t, m)
			})
			if err != nil {
				slots[i] <- Result{Path: t.Path, Size: t.Size, Err: errgo.Wrap(err, "failed to schedule")}
			}
		}
	})

	var s Summary
	for _, slot := range slots {
		r := <-slot
		h.metrics.record(r)

		s.Files++
		if r.Err != nil {
			s.Failed++
		} else {
			s.Bytes += r.Size
		}

		emit(r)
	}

	wg.Wait()
	m.Done()

	s.Duration = time.Since(start)
	if s.Duration > 0 {
		s.AvgRate = int64(float64(s.Bytes) / s.Duration.Seconds())
	}

	log.Debug().
		Int64("files", s.Files).
		Int64("failed", s.Failed).
		Str("size", humanize.IBytes(uint64(s.Bytes))).
		Dur("duration", s.Duration).
		Msg("run finished")

	return s
}

// safeSum turns a panic of a single task into an error result.
func (h *Hasher) safeSum(ctx context.Context, t Target, m *flowrate.Monitor) (r Result) {
	var pc panics.Catcher
	pc.Try(func() {
		r = h.sum(ctx, t, m)
	})

	if rec := pc.Recovered(); rec != nil {
		log.Error().Str("path", t.Path).Str("panic", rec.String()).Msg("checksum task panicked")
		return Result{Path: t.Path, Size: t.Size, Err: rec.AsError()}
	}

	return r
}

// Sum checksums a single target on the calling goroutine.
func (h *Hasher) Sum(ctx context.Context, t Target) Result {
	return h.sum(ctx, t, nil)
}

func (h *Hasher) sum(ctx context.Context, t Target, m *flowrate.Monitor) Result {
	r := Result{Path: t.Path, Size: t.Size}
	if t.Err != nil {
		r.Err = t.Err
		return r
	}

	weight := h.weight(t.Size)
	if err := h.inflight.Acquire(ctx, weight); err != nil {
		r.Err = err
		return r
	}
	defer h.inflight.Release(weight)

	buf := mempool.Get()
	defer mempool.Put(buf)

	start := time.Now()
	opt := gfs.ReadOptions{Limiter: h.limiter, Monitor: m}

	var err error
	if t.Path == Stdin {
		err = gfs.ReadAll(ctx, buf, h.Stdin, opt)
	} else {
		err = gfs.ReadFile(ctx, t.Path, buf, opt)
	}

	if err != nil {
		r.Err = err
		return r
	}

	r.Size = int64(buf.Len())
	r.CRC32, r.Err = crc32.ChecksumBuffer(buf)

	h.metrics.duration.Observe(time.Since(start).Seconds())

	log.Trace().Str("path", r.Path).Int64("size", r.Size).Str("crc32", r.Hex()).Msg("checksum")

	return r
}

// weight is the share of the in-flight budget a target holds while it is in memory.
// Unknown sizes take the whole budget.
func (h *Hasher) weight(size int64) int64 {
	budget := int64(h.cfg.MaxInflight)
	if size < 0 || size > budget {
		return budget
	}

	return max(size, 1)
}

func totalSize(targets []Target) int64 {
	var n int64
	for _, t := range targets {
		if t.Err == nil && t.Size > 0 {
			n += t.Size
		}
	}

	return n
}

// ReportProgress logs throughput every interval until ctx is done.
func (h *Hasher) ReportProgress(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := h.Progress()
			if !s.Active {
				continue
			}

			log.Info().
				Str("done", humanize.IBytes(uint64(s.Total))).
				Str("remaining", humanize.IBytes(uint64(s.BytesRem))).
				Str("rate", humanize.IBytes(uint64(s.CurRate))+"/s").
				Dur("eta", s.TimeRem).
				Msg("progress")
		}
	}
}

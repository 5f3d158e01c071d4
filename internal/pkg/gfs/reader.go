// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package gfs

import (
	"context"
	"io"

	"github.com/juju/ratelimit"
)

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

// NewReader returns a reader that stops with ctx.Err() once ctx is done.
func NewReader(ctx context.Context, r io.Reader) io.Reader {
	return &contextReader{ctx, r}
}

func (r *contextReader) Read(p []byte) (int, error) {
	select {
	case <-r.ctx.Done():
		return 0, r.ctx.Err()
	default:
		return r.r.Read(p)
	}
}

// NewLimiter returns a token bucket for bytesPerSecond, or nil when it's not positive.
func NewLimiter(bytesPerSecond int64) *ratelimit.Bucket {
	if bytesPerSecond <= 0 {
		return nil
	}

	return ratelimit.NewBucketWithRate(float64(bytesPerSecond), bytesPerSecond)
}

// NewLimitedReader throttles r with bucket, a nil bucket means no limit.
func NewLimitedReader(r io.Reader, bucket *ratelimit.Bucket) io.Reader {
	if bucket == nil {
		return r
	}

	return ratelimit.Reader(r, bucket)
}

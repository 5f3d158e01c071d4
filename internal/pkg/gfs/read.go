// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package gfs

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/juju/ratelimit"
	"github.com/trim21/errgo"
	"github.com/valyala/bytebufferpool"

	"slicecrc/internal/pkg/flowrate"
	"slicecrc/internal/pkg/mempool"
)

var ErrIsDir = errors.New("is a directory")

type ReadOptions struct {
	Limiter *ratelimit.Bucket
	Monitor *flowrate.Monitor
}

// ReadFile appends the whole content of path to buf.
func ReadFile(ctx context.Context, path string, buf *bytebufferpool.ByteBuffer, opt ReadOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return errgo.Wrap(err, "failed to open file")
	}
	defer f.Close()

	s, err := f.Stat()
	if err != nil {
		return errgo.Wrap(err, "failed to stat file")
	}

	if s.IsDir() {
		return ErrIsDir
	}

	adviseSequential(f)

	if size := int(s.Size()); size > 0 && cap(buf.B)-len(buf.B) < size {
		grown := make([]byte, len(buf.B), len(buf.B)+size)
		copy(grown, buf.B)
		buf.B = grown
	}

	return ReadAll(ctx, buf, f, opt)
}

// ReadAll appends everything from r to buf through a pooled copy buffer.
func ReadAll(ctx context.Context, buf *bytebufferpool.ByteBuffer, r io.Reader, opt ReadOptions) error {
	r = NewLimitedReader(NewReader(ctx, r), opt.Limiter)
	if opt.Monitor != nil {
		r = opt.Monitor.WrapReader(r)
	}

	tmp := mempool.GetSlice()
	defer mempool.PutSlice(tmp)

	for {
		n, err := r.Read(tmp)
		if n > 0 {
			_, _ = buf.Write(tmp[:n])
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}
	}
}

// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package gfs_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/docker/go-units"
	"github.com/stretchr/testify/require"
	"github.com/valyala/bytebufferpool"

	"slicecrc/internal/pkg/flowrate"
	"slicecrc/internal/pkg/gfs"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	content := bytes.Repeat([]byte("0123456789abcdef"), units.MiB/8)
	path := filepath.Join(t.TempDir(), "a.bin")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	m := flowrate.New(0, 0)

	var buf bytebufferpool.ByteBuffer
	require.NoError(t, gfs.ReadFile(context.Background(), path, &buf, gfs.ReadOptions{Monitor: m}))
	require.Equal(t, content, buf.B)
	require.EqualValues(t, len(content), m.Done())
}

func TestReadFileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var buf bytebufferpool.ByteBuffer
	require.ErrorIs(t, gfs.ReadFile(context.Background(), dir, &buf, gfs.ReadOptions{}), gfs.ErrIsDir)
	require.Error(t, gfs.ReadFile(context.Background(), filepath.Join(dir, "missing"), &buf, gfs.ReadOptions{}))
}

func TestReadAllCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytebufferpool.ByteBuffer
	err := gfs.ReadAll(ctx, &buf, bytes.NewReader([]byte("data")), gfs.ReadOptions{})
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, buf.Len())
}

func TestReadAllLimited(t *testing.T) {
	t.Parallel()

	var buf bytebufferpool.ByteBuffer
	err := gfs.ReadAll(context.Background(), &buf, bytes.NewReader([]byte("data")), gfs.ReadOptions{
		Limiter: gfs.NewLimiter(units.MiB),
	})
	require.NoError(t, err)
	require.Equal(t, "data", buf.String())

	require.Nil(t, gfs.NewLimiter(0))
}

// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package core_test

import (
	"bytes"
	"context"
	"fmt"
	stdcrc32 "hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-units"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"slicecrc/internal/config"
	"slicecrc/internal/core"
	"slicecrc/internal/pkg/gfs"
)

func newHasher(t *testing.T, mutate func(c *config.Hash)) (*core.Hasher, *prometheus.Registry) {
	t.Helper()

	cfg := config.Default().Hash
	cfg.Workers = 4
	if mutate != nil {
		mutate(&cfg)
	}

	reg := prometheus.NewRegistry()
	h, err := core.New(cfg, reg)
	require.NoError(t, err)
	t.Cleanup(h.Close)

	return h, reg
}

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, content, 0o600))
}

func collect(ctx context.Context, h *core.Hasher, targets []core.Target) ([]core.Result, core.Summary) {
	var results []core.Result
	s := h.Run(ctx, targets, func(r core.Result) {
		results = append(results, r)
	})
	return results, s
}

func TestRunKeepsOrder(t *testing.T) {
	t.Parallel()

	h, reg := newHasher(t, nil)
	dir := t.TempDir()

	var args []string
	var contents [][]byte
	var total int
	for i := range 20 {
		content := bytes.Repeat([]byte{byte(i)}, (20-i)*1000+i)
		path := filepath.Join(dir, fmt.Sprintf("f%02d", i))
		writeFile(t, path, content)

		args = append(args, path)
		contents = append(contents, content)
		total += len(content)
	}
	args = append(args, filepath.Join(dir, "missing"))

	results, s := collect(context.Background(), h, h.Expand(args))
	require.Len(t, results, 21)

	for i, content := range contents {
		require.NoError(t, results[i].Err)
		require.Equal(t, args[i], results[i].Path)
		require.EqualValues(t, len(content), results[i].Size)
		require.Equal(t, stdcrc32.ChecksumIEEE(content), results[i].CRC32)
	}
	require.Error(t, results[20].Err)

	require.EqualValues(t, 21, s.Files)
	require.EqualValues(t, 1, s.Failed)
	require.EqualValues(t, total, s.Bytes)
	require.EqualValues(t, total, h.Progress().Total)

	expected := fmt.Sprintf(`
# HELP slicecrc_bytes_total Bytes checksummed.
# TYPE slicecrc_bytes_total counter
slicecrc_bytes_total %d
# HELP slicecrc_files_total Inputs checksummed, by status.
# TYPE slicecrc_files_total counter
slicecrc_files_total{status="error"} 1
slicecrc_files_total{status="ok"} 20
`, total)
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"slicecrc_bytes_total", "slicecrc_files_total"))
}

func TestRunStdin(t *testing.T) {
	t.Parallel()

	h, _ := newHasher(t, nil)
	h.Stdin = strings.NewReader("123456789")

	results, s := collect(context.Background(), h, h.Expand([]string{"-", "-"}))
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	require.Equal(t, core.Stdin, results[0].Path)
	require.EqualValues(t, 9, results[0].Size)
	require.Equal(t, "cbf43926", results[0].Hex())
	require.EqualValues(t, 9, s.Bytes)
}

func TestRunEmptyFile(t *testing.T) {
	t.Parallel()

	h, _ := newHasher(t, nil)
	path := filepath.Join(t.TempDir(), "empty")
	writeFile(t, path, nil)

	r := h.Sum(context.Background(), h.Expand([]string{path})[0])
	require.NoError(t, r.Err)
	require.Zero(t, r.CRC32)
	require.Zero(t, r.Size)
}

func TestRunSmallBudget(t *testing.T) {
	t.Parallel()

	// files larger than the budget still go through, one at a time
	h, _ := newHasher(t, func(c *config.Hash) {
		c.MaxInflight = units.MiB
		c.Workers = 8
	})
	dir := t.TempDir()

	content := bytes.Repeat([]byte("slicecrc"), units.MiB/4)
	var args []string
	for i := range 4 {
		path := filepath.Join(dir, fmt.Sprintf("big%d", i))
		writeFile(t, path, content)
		args = append(args, path)
	}

	results, s := collect(context.Background(), h, h.Expand(args))
	require.Zero(t, s.Failed)
	for _, r := range results {
		require.Equal(t, stdcrc32.ChecksumIEEE(content), r.CRC32)
	}
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()

	h, _ := newHasher(t, nil)
	path := filepath.Join(t.TempDir(), "a")
	writeFile(t, path, []byte("data"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, s := collect(ctx, h, h.Expand([]string{path, path}))
	require.EqualValues(t, 2, s.Failed)
	for _, r := range results {
		require.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestExpandDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b", "2"), []byte("2"))
	writeFile(t, filepath.Join(dir, "a"), []byte("a"))
	writeFile(t, filepath.Join(dir, "b", "1"), []byte("1"))
	require.NoError(t, os.Symlink(filepath.Join(dir, "a"), filepath.Join(dir, "c")))

	flat, _ := newHasher(t, nil)
	targets := flat.Expand([]string{dir})
	require.Len(t, targets, 1)
	require.ErrorIs(t, targets[0].Err, gfs.ErrIsDir)

	recursive, _ := newHasher(t, func(c *config.Hash) { c.Recursive = true })
	targets = recursive.Expand([]string{dir})
	require.Equal(t, []core.Target{
		{Path: filepath.Join(dir, "a"), Size: 1},
		{Path: filepath.Join(dir, "b", "1"), Size: 1},
		{Path: filepath.Join(dir, "b", "2"), Size: 1},
	}, targets)

	follow, _ := newHasher(t, func(c *config.Hash) {
		c.Recursive = true
		c.FollowSymlinks = true
	})
	targets = follow.Expand([]string{dir})
	require.Len(t, targets, 4)
	require.Equal(t, filepath.Join(dir, "c"), targets[3].Path)
}

func TestExpandDefaultsToStdin(t *testing.T) {
	t.Parallel()

	h, _ := newHasher(t, nil)
	require.Equal(t, []core.Target{{Path: core.Stdin, Size: -1}}, h.Expand(nil))
}

func TestReportProgressStops(t *testing.T) {
	t.Parallel()

	h, _ := newHasher(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	h.ReportProgress(ctx, 10*time.Millisecond)
	require.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
}

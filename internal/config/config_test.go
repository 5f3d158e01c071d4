// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/docker/go-units"
	"github.com/stretchr/testify/require"

	"slicecrc/internal/config"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	require.Positive(t, cfg.Hash.Workers)
	require.EqualValues(t, 256*units.MiB, cfg.Hash.MaxInflight)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFromFile(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[hash]
workers = 3
max-inflight = "64MiB"
rate-limit = "10m"
recursive = true

[web]
address = "0.0.0.0:9000"
`), 0o600))

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Hash.Workers)
	require.EqualValues(t, 64*units.MiB, cfg.Hash.MaxInflight)
	require.EqualValues(t, 10*units.MiB, cfg.Hash.RateLimit)
	require.True(t, cfg.Hash.Recursive)
	require.False(t, cfg.Hash.FollowSymlinks)
	require.Equal(t, "0.0.0.0:9000", cfg.Web.Address)
	require.EqualValues(t, 64*units.MiB, cfg.Web.MaxBody)
}

func TestInvalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"[hash]\nworkers = 0",
		"[hash]\nmax-inflight = \"1k\"",
		"[hash]\nmax-inflight = \"lots\"",
		"[web]\naddress = \"\"",
		"[web]\naddress = \"no-port\"",
		"not toml",
	} {
		_, err := config.Parse([]byte(raw))
		require.Errorf(t, err, "%q", raw)
	}
}

func TestSizeString(t *testing.T) {
	t.Parallel()

	s, err := config.ParseSize("1.5MiB")
	require.NoError(t, err)
	require.EqualValues(t, units.MiB*3/2, s)
	require.Equal(t, "1.5MiB", s.String())
}

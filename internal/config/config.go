// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package config

import (
	"os"
	"runtime"

	"github.com/docker/go-units"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/trim21/errgo"
)

type Hash struct {
	Workers int `toml:"workers" validate:"min=1,max=1024"`
	// upper bound of file content held in memory at once
	MaxInflight Size `toml:"max-inflight" validate:"min=1048576"`
	// bytes per second, 0 disables it
	RateLimit      Size `toml:"rate-limit" validate:"min=0"`
	Recursive      bool `toml:"recursive"`
	FollowSymlinks bool `toml:"follow-symlinks"`
}

type Web struct {
	Address string `toml:"address" validate:"required,hostname_port"`
	MaxBody Size   `toml:"max-body" validate:"min=1"`
}

type Config struct {
	Hash Hash `toml:"hash"`
	Web  Web  `toml:"web"`
}

func Default() Config {
	return Config{
		Hash: Hash{
			Workers:     runtime.NumCPU(),
			MaxInflight: 256 * units.MiB,
		},
		Web: Web{
			Address: "127.0.0.1:8003",
			MaxBody: 64 * units.MiB,
		},
	}
}

// LoadFromFile reads a TOML config, a missing file means default config.
func LoadFromFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}

		return Config{}, errgo.Wrap(err, "failed to read config file")
	}

	return Parse(raw)
}

// Parse decodes raw on top of Default() and validates the result.
func Parse(raw []byte) (Config, error) {
	cfg := Default()

	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errgo.Wrap(err, "failed to parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errgo.Wrap(err, "invalid config")
	}

	return nil
}

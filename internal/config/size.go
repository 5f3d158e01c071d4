// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package config

import (
	"github.com/docker/go-units"
	"github.com/trim21/errgo"
)

// Size is a byte count written as a human string in config, "64MiB" or "512k".
// Units are always binary.
type Size int64

func ParseSize(s string) (Size, error) {
	v, err := units.RAMInBytes(s)
	if err != nil {
		return 0, errgo.Wrap(err, "invalid size")
	}

	return Size(v), nil
}

func (s *Size) UnmarshalText(text []byte) error {
	v, err := ParseSize(string(text))
	if err != nil {
		return err
	}

	*s = v
	return nil
}

func (s Size) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s Size) String() string {
	return units.BytesSize(float64(s))
}

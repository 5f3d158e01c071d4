// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

//go:build !release

// Package assert panics on broken invariants in development builds.
// Build with `-tags release` to compile every check away.
package assert

import "fmt"

func fail[T any](v1, v2 T, msg []string) {
	if len(msg) == 0 {
		panic(fmt.Sprintf("assert failed: %v, %v", v1, v2))
	}

	panic(fmt.Sprintf("%s: %v, %v", msg[0], v1, v2))
}

func Equal[T comparable](v1, v2 T, msg ...string) {
	if v1 != v2 {
		fail(v1, v2, msg)
	}
}

func NotEqual[T comparable](v1, v2 T, msg ...string) {
	if v1 == v2 {
		fail(v1, v2, msg)
	}
}

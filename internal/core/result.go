// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package core

import (
	"fmt"
	"time"
)

// Stdin is the path that reads standard input.
const Stdin = "-"

// Target is one input resolved by Expand.
type Target struct {
	Err  error
	Path string
	// -1 when unknown
	Size int64
}

type Result struct {
	Err   error
	Path  string
	Size  int64
	CRC32 uint32
}

func (r Result) Hex() string {
	return fmt.Sprintf("%08x", r.CRC32)
}

type Summary struct {
	Files    int64
	Failed   int64
	Bytes    int64
	Duration time.Duration
	// bytes per second
	AvgRate int64
}

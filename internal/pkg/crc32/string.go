// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package crc32

import (
	"slicecrc/internal/pkg/unsafe"
)

// ChecksumString returns the checksum of the bytes of s without copying them.
func ChecksumString(s string) uint32 {
	return Checksum(unsafe.Bytes(s))
}

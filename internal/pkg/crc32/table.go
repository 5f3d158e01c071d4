// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package crc32

import (
	"sync"

	"slicecrc/internal/pkg/assert"
)

// Polynomial is the reversed IEEE 802.3 polynomial, as used by zlib, gzip and png.
const Polynomial = 0xedb88320

// Size of a CRC-32 checksum in bytes.
const Size = 4

// Table is a slicing-by-16 lookup table.
//
// Entry [t][i] is the contribution of byte i when it sits t positions before
// the end of a 16 byte window, i.e. after 8*(t+1) bit reductions.
type Table [16][256]uint32

// MakeTable builds the slicing-by-16 table for Polynomial.
// The result only depends on the polynomial, every call returns equal content.
func MakeTable() *Table {
	t := new(Table)

	for i := 0; i < 256; i++ {
		res := uint32(i)
		for s := 0; s < 16; s++ {
			for k := 0; k < 8; k++ {
				if res&1 == 1 {
					res = Polynomial ^ (res >> 1)
				} else {
					res >>= 1
				}
			}
			t[s][i] = res
		}
	}

	assert.Equal(t[0][0], 0, "crc32: zero byte must not contribute")
	assert.Equal(t[0][0x80], Polynomial, "crc32: top bit must reduce to the polynomial")

	return t
}

// ieee is built on first use and read-only afterward.
var ieee = sync.OnceValue(MakeTable)

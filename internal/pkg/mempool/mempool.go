// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

// Package mempool keeps file content buffers and copy buffers out of the GC.
package mempool

import (
	"github.com/colega/zeropool"
	"github.com/docker/go-units"
	"github.com/valyala/bytebufferpool"
)

// CopyBufferSize is the length of slices returned by GetSlice.
const CopyBufferSize = units.MiB

var slices = zeropool.New(func() []byte {
	return make([]byte, CopyBufferSize)
})

// GetSlice returns a CopyBufferSize long scratch slice.
func GetSlice() []byte {
	return slices.Get()
}

func PutSlice(slice []byte) {
	slices.Put(slice[:CopyBufferSize])
}

// Get returns an empty pooled buffer.
func Get() *bytebufferpool.ByteBuffer {
	return bytebufferpool.Get()
}

// GetWithCap returns an empty pooled buffer that can hold at least size bytes.
func GetWithCap(size int) *bytebufferpool.ByteBuffer {
	b := bytebufferpool.Get()
	if cap(b.B) < size {
		b.B = make([]byte, 0, size)
	}

	return b
}

func Put(b *bytebufferpool.ByteBuffer) {
	bytebufferpool.Put(b)
}

// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package crc32

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/valyala/bytebufferpool"
)

// ErrInvalidArgument is returned when the buffer reference is absent.
var ErrInvalidArgument = errors.New("crc32: invalid argument")

// ErrLengthOutOfRange is returned by ChecksumChecked, it matches ErrInvalidArgument with errors.Is.
var ErrLengthOutOfRange = fmt.Errorf("%w: length out of range", ErrInvalidArgument)

// Checksum returns the CRC-32 checksum of b. A nil slice is empty.
func Checksum(b []byte) uint32 {
	return ^update(0xffffffff, ieee(), b)
}

// ChecksumPointer returns the checksum of n bytes starting at p.
//
// Only p is validated. n must not exceed the memory behind p, this is not
// checked and reading past it is undefined behaviour.
func ChecksumPointer(p *byte, n int) (uint32, error) {
	if p == nil {
		return 0, ErrInvalidArgument
	}

	return Checksum(unsafe.Slice(p, n)), nil
}

// ChecksumBuffer returns the checksum of the whole content of buf.
func ChecksumBuffer(buf *bytebufferpool.ByteBuffer) (uint32, error) {
	if buf == nil {
		return 0, ErrInvalidArgument
	}

	return Checksum(buf.B), nil
}

// ChecksumBufferN returns the checksum of the first n bytes of buf.
// Like ChecksumPointer, n is trusted.
func ChecksumBufferN(buf *bytebufferpool.ByteBuffer, n int) (uint32, error) {
	if buf == nil {
		return 0, ErrInvalidArgument
	}

	return Checksum(unsafe.Slice(unsafe.SliceData(buf.B), n)), nil
}

// ChecksumChecked returns the checksum of b[:n] after validating n.
func ChecksumChecked(b []byte, n int) (uint32, error) {
	if n < 0 || n > len(b) {
		return 0, ErrLengthOutOfRange
	}

	return Checksum(b[:n]), nil
}

// update runs the slicing-by-16 loop over p, crc is neither pre nor post inverted.
func update(crc uint32, tab *Table, p []byte) uint32 {
	for len(p) >= 16 {
		_ = p[15]

		d := tab[15][byte(crc)^p[0]] ^
			tab[14][byte(crc>>8)^p[1]] ^
			tab[13][byte(crc>>16)^p[2]] ^
			tab[12][byte(crc>>24)^p[3]]
		c := tab[11][p[4]] ^ tab[10][p[5]] ^ tab[9][p[6]] ^ tab[8][p[7]]
		b := tab[7][p[8]] ^ tab[6][p[9]] ^ tab[5][p[10]] ^ tab[4][p[11]]
		a := tab[3][p[12]] ^ tab[2][p[13]] ^ tab[1][p[14]] ^ tab[0][p[15]]

		crc = a ^ b ^ c ^ d
		p = p[16:]
	}

	for _, v := range p {
		crc = tab[0][byte(crc)^v] ^ (crc >> 8)
	}

	return crc
}

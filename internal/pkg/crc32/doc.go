// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

// Package crc32 computes the CRC-32/ISO-HDLC checksum (zlib, gzip, png) with a
// slicing-by-16 table.
//
// The table is 16 KiB, built once on first use and shared by every caller.
// A call allocates nothing and keeps no state, so functions in this package
// are safe for concurrent use.
//
// There is no streaming API, every call checksums one complete buffer.
package crc32

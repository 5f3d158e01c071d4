// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

//go:build !release

package assert_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"slicecrc/internal/pkg/assert"
)

func TestEqual(t *testing.T) {
	require.NotPanics(t, func() { assert.Equal(1, 1) })
	require.PanicsWithValue(t, "size: 1, 2", func() { assert.Equal(1, 2, "size") })
	require.PanicsWithValue(t, "assert failed: a, a", func() { assert.NotEqual("a", "a") })
}

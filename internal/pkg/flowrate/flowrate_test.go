// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package flowrate_test

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"slicecrc/internal/pkg/flowrate"
)

func TestMonitorTotal(t *testing.T) {
	t.Parallel()

	m := flowrate.New(0, 0)
	m.SetTotal(100)

	n, err := io.Copy(io.Discard, m.WrapReader(bytes.NewReader(make([]byte, 40))))
	require.NoError(t, err)
	require.EqualValues(t, 40, n)

	s := m.Status()
	require.True(t, s.Active)
	require.EqualValues(t, 60, s.BytesRem)

	require.EqualValues(t, 40, m.Done())
	require.False(t, m.Status().Active)
}

func TestMonitorRate(t *testing.T) {
	t.Parallel()

	m := flowrate.New(20*time.Millisecond, 0)
	for range 5 {
		m.Update(1000)
		time.Sleep(30 * time.Millisecond)
	}
	m.Update(0)

	s := m.Status()
	require.Positive(t, s.Samples)
	require.Positive(t, s.PeakRate)
	require.EqualValues(t, 5000, m.Done())
}

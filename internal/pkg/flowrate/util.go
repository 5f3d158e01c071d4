// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package flowrate

import (
	"math"
	"time"
)

// clockRate is the resolution of clock().
const clockRate = 20 * time.Millisecond

// czero is the process start time rounded down to clockRate.
var czero = time.Duration(time.Now().UnixNano()) / clockRate * clockRate

// clock returns a low resolution timestamp relative to czero.
func clock() time.Duration {
	return time.Duration(time.Now().UnixNano())/clockRate*clockRate - czero
}

func clockToTime(c time.Duration) time.Time {
	return time.Unix(0, int64(czero+c))
}

func clockRound(d time.Duration) time.Duration {
	return (d + clockRate>>1) / clockRate * clockRate
}

func round(x float64) int64 {
	return int64(math.Round(x))
}

// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package version

import (
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
)

func needQuote(s string, chars string) bool {
	return len(s) == 0 || strings.ContainsAny(s, chars)
}

// FormatBuildInfo renders info like `go version -m`.
func FormatBuildInfo(info *debug.BuildInfo) string {
	buf := new(strings.Builder)

	fmt.Fprintf(buf, "go\t%s\n", info.GoVersion)
	fmt.Fprintf(buf, "path\t%s\n", info.Path)

	modSize, versionSize := 0, 0
	for _, d := range info.Deps {
		modSize = max(modSize, len(d.Path))
		versionSize = max(versionSize, len(d.Version))
	}

	for _, d := range info.Deps {
		fmt.Fprintf(buf, "dep\t%-*s %-*s %s\n", modSize, d.Path, versionSize, d.Version, d.Sum)
		if d.Replace != nil {
			fmt.Fprintf(buf, "=>\t%-*s %-*s %s\n", modSize, d.Replace.Path, versionSize, d.Replace.Version, d.Replace.Sum)
		}
	}

	for _, s := range info.Settings {
		key := s.Key
		if needQuote(key, "= \t\r\n\"`") {
			key = strconv.Quote(key)
		}
		value := s.Value
		if value != "" && needQuote(value, " \t\r\n\"`") {
			value = strconv.Quote(value)
		}
		fmt.Fprintf(buf, "build\t%s=%s\n", key, value)
	}

	return buf.String()
}

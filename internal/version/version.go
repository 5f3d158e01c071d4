// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package version

import (
	"bytes"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"text/template"

	"github.com/samber/lo"

	"slicecrc/internal/pkg/global"
)

const (
	MAJOR = 0
	MINOR = 1
	PATCH = 0
)

// Populated at build time with -ldflags.
var (
	Revision  string
	BuildDate string
)

var Version = fmt.Sprintf("%d.%d.%d", MAJOR, MINOR, PATCH)

var versionInfoTmpl = `
{{ .name }} {{ .version }}
revision:   {{ .revision }}
go version: {{ .goVersion }}
platform:   {{ .platform }}
{{ if .buildDate -}} build date: {{ .buildDate }} {{- end }}
{{ if .tags -}} build tags: {{ .tags }} {{- end }}
`

var versionOutput string

// Print returns version information.
func Print() string {
	return versionOutput
}

func gen(revision, tags string) string {
	v := Version
	if global.Dev {
		v += " (development)"
	}

	m := map[string]string{
		"name":      global.Name,
		"version":   v,
		"revision":  revision,
		"buildDate": BuildDate,
		"platform":  runtime.GOOS + "/" + runtime.GOARCH,
		"goVersion": runtime.Version(),
		"tags":      tags,
	}

	var buf bytes.Buffer
	t := template.Must(template.New("version").Parse(versionInfoTmpl))
	if err := t.Execute(&buf, m); err != nil {
		panic(err)
	}

	lines := lo.Filter(strings.Split(buf.String(), "\n"), func(item string, _ int) bool {
		return strings.TrimSpace(item) != ""
	})

	return strings.Join(lines, "\n")
}

func init() {
	rev, tags := computeRevision()
	if Revision != "" {
		rev = Revision
	}

	versionOutput = gen(rev, tags)
}

func computeRevision() (string, string) {
	var (
		rev      = "<unknown>"
		tags     = ""
		modified bool
	)

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return rev, tags
	}

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value
		case "vcs.modified":
			modified = v.Value == "true"
		case "-tags":
			tags = v.Value
		}
	}

	if modified {
		return rev + "-modified", tags
	}

	return rev, tags
}

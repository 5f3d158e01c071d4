// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package web

import (
	"fmt"
	"net/http"
	"reflect"
	"runtime/debug"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"slicecrc/internal/config"
	"slicecrc/internal/version"
	"slicecrc/internal/web/res"
)

func New(cfg config.Web, gatherer prometheus.Gatherer, enableDebug bool) http.Handler {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	r := chi.NewMux()
	r.Use(middleware.Recoverer)

	r.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		res.Text(w, http.StatusOK, ".")
	})

	if enableDebug {
		r.Get("/debug/version", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("content-type", "text/plain")
			w.WriteHeader(http.StatusOK)
			_, _ = fmt.Fprintln(w, version.Print())
			if info, ok := debug.ReadBuildInfo(); ok {
				_, _ = fmt.Fprintln(w)
				_, _ = fmt.Fprint(w, version.FormatBuildInfo(info))
			}
		})

		r.Mount("/debug", middleware.Profiler())
	}

	h := &checksumHandler{maxBody: int64(cfg.MaxBody), validate: v}

	r.With(middleware.NoCache).Route("/v1/checksum", func(r chi.Router) {
		r.Post("/", handle(h.body))
		r.Get("/", handle(h.text))
	})

	return r
}

// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package web

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"slicecrc/internal/web/res"
)

// CodeError attaches a http status code to err.
func CodeError(code int, err error) error {
	return resError{error: err, code: code}
}

type resError struct {
	error
	code int
}

func (r resError) Unwrap() error {
	return r.error
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle writes errors returned by fn as json, with status 500 unless set by CodeError.
func handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		var re resError
		if errors.As(err, &re) {
			res.Error(w, re.code, re.error)
			return
		}

		log.Err(err).Str("path", r.URL.Path).Msg("unexpected error")
		res.Error(w, http.StatusInternalServerError, err)
	}
}

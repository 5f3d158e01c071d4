// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"slicecrc/internal/pkg/crc32"
	"slicecrc/internal/pkg/gfs"
	"slicecrc/internal/pkg/mempool"
	"slicecrc/internal/web/res"
)

type checksumHandler struct {
	validate *validator.Validate
	maxBody  int64
}

type checksumResponse struct {
	Hex   string `json:"hex"`
	Size  int    `json:"size"`
	CRC32 uint32 `json:"crc32"`
}

func newChecksumResponse(v uint32, size int) checksumResponse {
	return checksumResponse{CRC32: v, Hex: fmt.Sprintf("%08x", v), Size: size}
}

// body answers with the checksum of the request body.
func (h *checksumHandler) body(w http.ResponseWriter, r *http.Request) error {
	if r.ContentLength > h.maxBody {
		return CodeError(http.StatusRequestEntityTooLarge, errors.New("request body too large"))
	}

	buf := mempool.GetWithCap(int(max(r.ContentLength, 0)))
	defer mempool.Put(buf)

	err := gfs.ReadAll(r.Context(), buf, http.MaxBytesReader(w, r.Body, h.maxBody), gfs.ReadOptions{})
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return CodeError(http.StatusRequestEntityTooLarge, errors.New("request body too large"))
		}

		return CodeError(http.StatusBadRequest, err)
	}

	v, err := crc32.ChecksumBuffer(buf)
	if err != nil {
		return err
	}

	log.Debug().Int("size", buf.Len()).Uint32("crc32", v).Msg("checksum request body")

	res.JSON(w, http.StatusOK, newChecksumResponse(v, buf.Len()))
	return nil
}

type textQuery struct {
	Text string `query:"text" validate:"required"`
}

// text answers with the checksum of the `text` query parameter.
func (h *checksumHandler) text(w http.ResponseWriter, r *http.Request) error {
	q := textQuery{Text: r.URL.Query().Get("text")}

	if err := h.validate.Struct(q); err != nil {
		return CodeError(http.StatusBadRequest, err)
	}

	res.JSON(w, http.StatusOK, newChecksumResponse(crc32.ChecksumString(q.Text), len(q.Text)))
	return nil
}

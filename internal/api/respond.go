// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/netplus-lab/netplus/internal/db"
	"github.com/netplus-lab/netplus/internal/logging"
	"github.com/netplus-lab/netplus/internal/netcalc"
	"github.com/netplus-lab/netplus/internal/progress"
	"github.com/netplus-lab/netplus/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warnf("api: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, ErrorResponse{Error: code, Detail: detail})
}

// writeDomainError maps package errors onto status codes and stable codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Code, verr.Message())
	case errors.Is(err, netcalc.ErrInvalidAddress):
		writeError(w, http.StatusBadRequest, "invalid_address", err.Error())
	case errors.Is(err, netcalc.ErrInvalidPrefix), errors.Is(err, netcalc.ErrInvalidMask):
		writeError(w, http.StatusBadRequest, "invalid_prefix", err.Error())
	case errors.Is(err, netcalc.ErrInvalidRequirement), errors.Is(err, progress.ErrEmptyName):
		writeError(w, http.StatusBadRequest, "invalid_requirement", err.Error())
	case errors.Is(err, netcalc.ErrTooManyHosts):
		writeError(w, http.StatusUnprocessableEntity, "too_many_hosts", err.Error())
	case errors.Is(err, netcalc.ErrTooManySubnets):
		writeError(w, http.StatusUnprocessableEntity, "too_many_subnets", err.Error())
	case errors.Is(err, netcalc.ErrInsufficientSpace):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_space", err.Error())
	case errors.Is(err, db.ErrDuplicate):
		writeError(w, http.StatusConflict, "duplicate", err.Error())
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		logging.Errorf("api: %v", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		detail := err.Error()
		if errors.Is(err, io.EOF) {
			detail = "request body is empty"
		}
		writeError(w, http.StatusBadRequest, "invalid_json", detail)
		return false
	}
	return true
}

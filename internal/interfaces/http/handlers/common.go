package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/H2Siting/internal/interfaces/http/middleware"
	"github.com/turtacn/H2Siting/pkg/errors"
	"github.com/turtacn/H2Siting/pkg/types/common"
)

const maxJSONBody = 1 << 20

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusErrorResponse is the failure envelope of the assistant and history
// APIs, which always carry a status field.
type StatusErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

var encodeFailureBody = []byte(`{"error":"internal server error"}` + "\n")

// writeJSON encodes data before committing statusCode, so a value that
// cannot be encoded is reported as a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if data == nil {
		w.WriteHeader(statusCode)
		return
	}
	body, err := json.Marshal(data)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(encodeFailureBody)
		return
	}
	w.WriteHeader(statusCode)
	_, _ = w.Write(append(body, '\n'))
}

// errorMessage returns the status and client-facing text of err. Errors
// that are not AppErrors are masked.
func errorMessage(err error) (int, string) {
	var ae *errors.AppError
	if errors.As(err, &ae) {
		return errors.HTTPStatus(err), ae.Message
	}
	return http.StatusInternalServerError, "internal server error"
}

// writeAppError maps an application error to its HTTP status through the
// error code table.
func writeAppError(w http.ResponseWriter, err error) {
	status, msg := errorMessage(err)
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func writeStatusError(w http.ResponseWriter, err error) {
	status, msg := errorMessage(err)
	writeJSON(w, status, StatusErrorResponse{Status: "error", Error: msg})
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	body := io.LimitReader(r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return errors.Wrap(err, errors.ErrCodeBadRequest, "request body must be valid JSON")
	}
	return nil
}

func currentUserID(r *http.Request) int64 {
	return middleware.ContextGetUserID(r.Context())
}

// pathInt64 parses a positive integer URL parameter.
func pathInt64(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || v <= 0 {
		return 0, errors.InvalidParam("invalid " + name)
	}
	return v, nil
}

// parsePagination reads limit and offset query parameters. Unparseable
// values fall back to zero and are defaulted by the service.
func parsePagination(r *http.Request) common.Pagination {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	return common.Pagination{Limit: limit, Offset: offset}
}

//Personal.AI order the ending

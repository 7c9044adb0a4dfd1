package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// RequestIDHeader carries the id assigned to every request.
	RequestIDHeader = "X-Request-Id"
)

// Err is an error with the status code to respond with.
type Err struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *Err) Error() string {
	return e.Message
}

func NewErrf(statusCode int, format string, args ...any) *Err {
	return &Err{
		StatusCode: statusCode,
		Message:    fmt.Sprintf(format, args...),
	}
}

type request interface {
	decode(r *http.Request) error
}

// RegisterFunc registers fn on mux for the given method and path. The request is decoded from the
// path and query, the response is written as JSON and errors of type *Err keep their status code.
func RegisterFunc[Req, Resp any, PReq interface {
	*Req
	request
}](logger *logrus.Logger, mux *http.ServeMux, method, path string, fn func(ctx context.Context, req *Req) (*Resp, error)) {
	mux.HandleFunc(method+" "+path, func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		logger := logger.WithContext(r.Context()).WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		w.Header().Set(RequestIDHeader, requestID)

		req := PReq(new(Req))
		err := req.decode(r)
		if err != nil {
			writeErr(logger, w, err)
			return
		}

		resp, err := fn(r.Context(), (*Req)(req))
		if err != nil {
			writeErr(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, resp)
	})
}

func writeErr(logger *logrus.Entry, w http.ResponseWriter, err error) {
	apiErr := &Err{}
	if !errors.As(err, &apiErr) {
		logger.WithError(err).Error("Handler failed with unexpected error")
		apiErr = NewErrf(http.StatusInternalServerError, "Internal server error")
	}

	writeJSON(logger, w, apiErr.StatusCode, apiErr)
}

func writeJSON(logger *logrus.Entry, w http.ResponseWriter, statusCode int, v any) {
	// encode first so a failure can still change the status code
	var buf bytes.Buffer
	err := json.NewEncoder(&buf).Encode(v)
	if err != nil {
		logger.WithError(err).Error("Failed to encode response")
		statusCode = http.StatusInternalServerError
		buf.Reset()
		buf.WriteString(`{"error":"Internal server error"}` + "\n")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, err = w.Write(buf.Bytes())
	if err != nil {
		logger.WithError(err).Error("Failed to write response")
	}
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	msaerrors "github.com/matzehuels/msaview/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	switch msaerrors.GetCode(err) {
	case msaerrors.ErrCodeInvalidInput, msaerrors.ErrCodeInvalidPosition,
		msaerrors.ErrCodeOutOfRange, msaerrors.ErrCodeNotMultiple,
		msaerrors.ErrCodeNonFinite:
		return http.StatusBadRequest
	case msaerrors.ErrCodeNoHeaderFound:
		return http.StatusUnprocessableEntity
	case msaerrors.ErrCodeNotFound, msaerrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case msaerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(msaerrors.GetCode(err))
	if code == "" {
		code = string(msaerrors.ErrCodeInternal)
	}
	msg := msaerrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("internal error", "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBytes(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return msaerrors.Wrap(msaerrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

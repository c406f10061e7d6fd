// Package httpjson holds the request/response plumbing shared by the API
// handlers: JSON encoding with a consistent error envelope, and bounded
// request-body decoding.
package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps request payloads. Project and task documents are small;
// anything near this limit is not a legitimate request.
const maxBodyBytes = 1 << 20

// errorBody is the envelope every API error uses.
type errorBody struct {
	Msg string `json:"msg"`
}

// Respond writes v as JSON with the given status code.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	// Errors here mean the client went away; nothing useful to do.
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a JSON error envelope with the given status code.
func Error(w http.ResponseWriter, status int, msg string) {
	Respond(w, status, errorBody{Msg: msg})
}

// Decode reads the request body into dst, rejecting oversized payloads,
// malformed JSON, and trailing garbage.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	if dec.More() {
		return errors.New("decode request body: unexpected trailing data")
	}
	return nil
}

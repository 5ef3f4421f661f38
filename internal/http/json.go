package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

const maxJSONBody = 1 << 20

// DecodeJSON strictly decodes a body of at most 1 MiB into dst. On failure
// it writes a 400 validation_failed response and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	switch {
	case err == nil:
		return true
	case errors.Is(err, io.EOF):
		writeError(w, http.StatusBadRequest, "validation_failed", "request body is required")
	default:
		writeError(w, http.StatusBadRequest, "validation_failed", "request body must be valid JSON: "+err.Error())
	}
	return false
}

// WriteJSON encodes v before touching w so an encoding failure can still
// become a clean 500.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// writePage writes a named list with its paging bounds. Empty results
// encode as [] rather than null.
func writePage[T any](w http.ResponseWriter, key string, items []T, limit, offset int) {
	if items == nil {
		items = []T{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		key:      items,
		"limit":  limit,
		"offset": offset,
	})
}

// writeItems writes a named, unpaged list.
func writeItems[T any](w http.ResponseWriter, key string, items []T) {
	if items == nil {
		items = []T{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{key: items})
}

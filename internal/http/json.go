package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// maxBodyBytes bounds request bodies. Every mutating endpoint takes a small
// JSON object; anything larger is not a legitimate request.
const maxBodyBytes = 1 << 16

// DecodeJSON decodes the request body into dst. Unknown fields and oversized
// bodies are rejected. Returns false with the error response already written
// when decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes v as a JSON response with the given status code. The body
// is encoded up front so an encoding failure can still become a 500 instead
// of a truncated 200.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Client gone; nothing to recover.
		return
	}
}

// ErrorParams groups parameters for WriteError to adhere to the ≤3 params guideline.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes the API's uniform JSON error shape.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

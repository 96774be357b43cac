package response

import (
	"encoding/json"
	"net/http"
)

// fallbackBody is sent when a response value cannot be encoded
const fallbackBody = `{"error":{"code":"INTERNAL_ERROR","message":"Internal server error"}}`

// JSON encodes v before committing status, so an unencodable value still
// produces a well-formed 500 rather than a truncated body
func JSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status, body = http.StatusInternalServerError, []byte(fallbackBody)
	}

	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// NoContent answers 204
func NoContent(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)
}

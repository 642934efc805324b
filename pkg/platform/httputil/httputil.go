// Package httputil writes the API's JSON envelope: {success, message?, data?}.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "stellariq/pkg/domain-errors"
)

// Envelope is the response shape shared by every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// GenericInternalMessage is returned for unexpected failures.
const GenericInternalMessage = "Something went wrong!"

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a success envelope.
func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// WriteFailure writes a failure envelope with a client-facing message.
func WriteFailure(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{Success: false, Message: message})
}

// WriteError translates a domain error into a failure envelope. Internal and
// unrecognised errors never expose their message.
func WriteError(w http.ResponseWriter, err error) {
	de, ok := dErrors.As(err)
	if !ok || de.Code == dErrors.CodeInternal {
		WriteFailure(w, http.StatusInternalServerError, GenericInternalMessage)
		return
	}
	WriteFailure(w, dErrors.ToHTTPStatus(de.Code), de.Message)
}

package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rxhtt/morrigan/pkg/models"
)

// encodeJSON encodes data into JSON and writes it to the response writer.
func encodeJSON(w http.ResponseWriter, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(data)
}

// decodeJSON decodes a JSON request body into the provided data struct.
func decodeJSON(r *http.Request, data interface{}) error {
	return json.NewDecoder(r.Body).Decode(&data)
}

// renderDiagnostic writes a response whose body still carries a
// human-readable diagnostic string. The user never sees a raw stack trace
// or an empty body.
func renderDiagnostic(w http.ResponseWriter, err error, status int) {
	log.Error(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := models.ChatResponse{Text: fmt.Sprintf("[SYSTEM_FATAL]: %v", err)}
	if encodeErr := json.NewEncoder(w).Encode(body); encodeErr != nil {
		log.Errorf("error encoding diagnostic response: %v", encodeErr)
	}
}

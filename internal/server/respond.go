package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"table-admin/internal/schema"
)

type messageResp struct {
	Message string `json:"message"`
}

type errorResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, messageResp{Message: msg})
}

// writeError maps schema errors onto status codes. Database errors keep the
// driver's message verbatim.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var (
		ve *schema.ValidationError
		fe *schema.ForbiddenError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.As(err, &fe):
		status = http.StatusForbidden
	}

	fields := map[string]interface{}{
		"request_id": RequestIDFromContext(r.Context()),
		"op":         op,
		"status":     status,
	}
	if status == http.StatusInternalServerError {
		if num, ok := schema.MySQLErrorNumber(err); ok {
			fields["mysql_errno"] = num
		}
		Error("schema operation failed", fields, err)
	} else {
		fields["reason"] = err.Error()
		Debug("schema request rejected", fields)
	}

	writeJSON(w, status, errorResp{Error: err.Error()})
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched so
// the required-field checks report what is missing.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

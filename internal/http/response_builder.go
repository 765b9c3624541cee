package http

import (
	"encoding/json"
	"net/http"

	applog "ledger/internal/log"
)

// Generic client-facing error messages. Details stay in the logs.
const (
	msgFetchFailed    = "Failed to fetch transactions"
	msgMissingFields  = "Missing required fields"
	msgInvalidBody    = "Invalid request body"
	msgInvalidAmount  = "Invalid amount"
	msgCreateFailed   = "Failed to add transaction"
	msgUpdateFailed   = "Failed to update transaction"
	msgDeleteFailed   = "Failed to delete transaction"
	msgInvalidMode    = "Invalid filter mode"
	msgInvalidPage    = "Invalid page"
	msgExportFailed   = "Failed to export transactions"
	msgExportDisabled = "Export backend not configured"
	msgUnauthorized   = "Unauthorized"
	msgRateLimited    = "Rate limit exceeded"
)

type errorBody struct {
	Error string `json:"error"`
}

// JSONResponse accumulates a status, headers and body before writing them
// in one go.
type JSONResponse struct {
	status  int
	headers map[string]string
	body    any
	noBody  bool
}

func NewJSONResponse(status int) *JSONResponse {
	return &JSONResponse{status: status, headers: make(map[string]string)}
}

func (b *JSONResponse) Header(key, value string) *JSONResponse {
	b.headers[key] = value
	return b
}

func (b *JSONResponse) Body(v any) *JSONResponse {
	b.body = v
	return b
}

// Empty drops the body entirely, for 204 responses.
func (b *JSONResponse) Empty() *JSONResponse {
	b.noBody = true
	return b
}

func (b *JSONResponse) Write(w http.ResponseWriter, r *http.Request) {
	for k, v := range b.headers {
		w.Header().Set(k, v)
	}
	if b.noBody {
		w.WriteHeader(b.status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.status)
	if err := json.NewEncoder(w).Encode(b.body); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Failed to encode response", applog.FieldError, err)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	NewJSONResponse(status).Body(v).Write(w, r)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	NewJSONResponse(status).Body(errorBody{Error: msg}).Write(w, r)
}

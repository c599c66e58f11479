package server

import (
	"encoding/json"
	"net/http"
)

// jsonrpcInternalError is the JSON-RPC 2.0 "Internal error" code.
const jsonrpcInternalError = -32603

type faultEnvelope struct {
	JSONRPC string     `json:"jsonrpc"`
	Error   faultError `json:"error"`
	ID      any        `json:"id"`
}

type faultError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeFault answers with 500 and a JSON-RPC error envelope carrying message.
func writeFault(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusInternalServerError, faultEnvelope{
		JSONRPC: "2.0",
		Error: faultError{
			Code:    jsonrpcInternalError,
			Message: message,
		},
		ID: nil,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

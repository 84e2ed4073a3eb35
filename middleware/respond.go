package middleware

import (
	"encoding/json"
	"net/http"
	"time"
)

type errorBody struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Code:      status,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	})
}

// Package result holds the response envelope every admin endpoint returns.
package result

import (
	"encoding/json"
	"net/http"
)

const (
	CodeSuccess = 1
	CodeError   = 0
)

// Result is the uniform envelope: code 1 with optional data on success,
// code 0 with a message on failure.
type Result struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

// PageResult is the data payload of paged queries.
type PageResult struct {
	Total   int64 `json:"total"`
	Records any   `json:"records"`
}

func Success() Result { return Result{Code: CodeSuccess} }

func SuccessWith(data any) Result { return Result{Code: CodeSuccess, Data: data} }

func Error(msg string) Result { return Result{Code: CodeError, Msg: msg} }

// Write renders r as JSON with the given HTTP status.
func Write(w http.ResponseWriter, status int, r Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(r)
}

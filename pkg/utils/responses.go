package utils

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint returns, success or failure.
// Data carries payloads, Errors carries field-level validation detail.
type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}

func responseOK(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, Response{Status: true, Message: message, Data: data})
}

func responseFail(w http.ResponseWriter, code int, message string, errors any) {
	writeJSON(w, code, Response{Status: false, Message: message, Errors: errors})
}

// ResponseSuccess returns 200 OK
func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	responseOK(w, http.StatusOK, message, data)
}

// ResponseCreated returns 201 Created
func ResponseCreated(w http.ResponseWriter, message string, data any) {
	responseOK(w, http.StatusCreated, message, data)
}

// ResponseBadRequest returns 400 with optional validation errors
func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	responseFail(w, http.StatusBadRequest, message, errors)
}

// ResponseUnauthorized returns 401
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	responseFail(w, http.StatusUnauthorized, message, nil)
}

// ResponseForbidden returns 403
func ResponseForbidden(w http.ResponseWriter, message string) {
	responseFail(w, http.StatusForbidden, message, nil)
}

// ResponseNotFound returns 404
func ResponseNotFound(w http.ResponseWriter, message string) {
	responseFail(w, http.StatusNotFound, message, nil)
}

// ResponseInternalError returns 500
func ResponseInternalError(w http.ResponseWriter, message string) {
	responseFail(w, http.StatusInternalServerError, message, nil)
}

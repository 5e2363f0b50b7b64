package httpresponse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	apperrors "connect4/internal/errors"
)

type Response struct {
	Status int `json:"status"`
	Body   any `json:"body,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

const INTERNALERRORJSON = "{\"status\": 500,\"body\":{\"error\": \"Internal server error\"}}"

func WriteResponseWithStatus(w http.ResponseWriter, status int, body any) {
	jsonByte, err := json.Marshal(Response{Status: status, Body: body})
	if err != nil {
		WriteInternalErrorResponse(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(jsonByte)
}

func WriteErrorWithStatus(w http.ResponseWriter, status int, msg string) {
	WriteResponseWithStatus(w, status, ErrorResponse{Error: msg})
}

// WriteError answers with the status matching err. Internal failures are not
// described to the client.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFromError(err)
	if status == http.StatusInternalServerError {
		WriteInternalErrorResponse(w)
		return
	}
	WriteErrorWithStatus(w, status, err.Error())
}

func StatusFromError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrGameFinished),
		errors.Is(err, apperrors.ErrNotBotTurn),
		errors.Is(err, apperrors.ErrBotToMove),
		errors.Is(err, apperrors.ErrColumnFull),
		errors.Is(err, apperrors.ErrNoLegalMove):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrColumnOutOfRange),
		errors.Is(err, apperrors.ErrInvalidDepth),
		errors.Is(err, apperrors.ErrInvalidSnapshot),
		errors.Is(err, apperrors.ErrInvalidDimensions),
		errors.Is(err, apperrors.ErrInvalidPosition),
		errors.Is(err, apperrors.ErrInvalidColor):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func WriteInternalErrorResponse(w http.ResponseWriter) {
	// same as http.Error, only the Content-Type differs
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintln(w, INTERNALERRORJSON)
}

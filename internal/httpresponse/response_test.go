package httpresponse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "connect4/internal/errors"
)

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperrors.ErrGameNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: 3", apperrors.ErrColumnFull), http.StatusConflict},
		{apperrors.ErrGameFinished, http.StatusConflict},
		{apperrors.ErrBotToMove, http.StatusConflict},
		{fmt.Errorf("%w: 9", apperrors.ErrColumnOutOfRange), http.StatusBadRequest},
		{apperrors.ErrInvalidSnapshot, http.StatusBadRequest},
		{apperrors.ErrInvalidColor, http.StatusBadRequest},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{apperrors.ErrInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusFromError(tc.err); got != tc.want {
			t.Fatalf("StatusFromError(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("%w: 7", apperrors.ErrColumnOutOfRange))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Status int           `json:"status"`
		Body   ErrorResponse `json:"body"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusBadRequest || resp.Body.Error != "column is out of range: 7" {
		t.Fatalf("unexpected body %+v", resp)
	}

	rec = httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("mongo exploded"))
	if rec.Code != http.StatusInternalServerError || rec.Body.String() != INTERNALERRORJSON+"\n" {
		t.Fatalf("internal error leaked: %d %q", rec.Code, rec.Body.String())
	}
}

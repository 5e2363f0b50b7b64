package engine

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"connect4/internal/bootstrap"
	repo "connect4/internal/repository"
	"connect4/internal/search"
	engineuc "connect4/internal/usecase/engine"
	gameuc "connect4/internal/usecase/game"
)

func newHandler(t *testing.T) *EngineHandler {
	cfg := bootstrap.Config{SearchDepth: 1, BoardWidth: 7, BoardHeight: 6, MaxBoardSide: 64, MaxSearchDepth: 12}
	log := zaptest.NewLogger(t).Sugar()
	uc := gameuc.NewGameUseCase(cfg, log, repo.NewMemoryGameRepository(10), engineuc.NewLocal(log))
	return NewEngineHandler(cfg, log, uc)
}

func TestHandleAnalyze(t *testing.T) {
	h := newHandler(t)
	body := `{"snapshot": "` + strings.Repeat(`0000000\n`, 6) + `1\n"}`

	rec := httptest.NewRecorder()
	h.HandleAnalyze(rec, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var got search.Analysis
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Column != 3 || got.Score != 3 || got.Depth != 1 || len(got.Columns) != 7 {
		t.Fatalf("unexpected analysis %+v", got)
	}
}

func TestHandleAnalyzeErrors(t *testing.T) {
	h := newHandler(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"empty body", "", http.StatusBadRequest},
		{"unknown field", `{"board": "x"}`, http.StatusBadRequest},
		{"bad snapshot", `{"snapshot": "13\n1\n"}`, http.StatusBadRequest},
		{"negative depth", `{"snapshot": "00\n00\n1\n", "depth": -1}`, http.StatusBadRequest},
		{"too deep", `{"snapshot": "00\n00\n1\n", "depth": 13}`, http.StatusBadRequest},
		{"full board", `{"snapshot": "12\n12\n1\n"}`, http.StatusConflict},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		h.HandleAnalyze(rec, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(tc.body)))
		if rec.Code != tc.want {
			t.Fatalf("%s: status = %d, want %d (%s)", tc.name, rec.Code, tc.want, rec.Body.String())
		}
		var resp map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || resp["error"] == "" {
			t.Fatalf("%s: missing error body", tc.name)
		}
	}
}

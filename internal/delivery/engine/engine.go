package engine

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"connect4/internal/bootstrap"
	"connect4/internal/domain/game"
	"connect4/internal/httpresponse"
	"connect4/internal/search"
	"connect4/internal/utils"
)

type Analyzer interface {
	Analyze(ctx context.Context, req game.AnalyzeRequest) (search.Analysis, error)
}

type EngineHandler struct {
	cfg      bootstrap.Config
	log      *zap.SugaredLogger
	analyzer Analyzer
}

func NewEngineHandler(cfg bootstrap.Config, log *zap.SugaredLogger, analyzer Analyzer) *EngineHandler {
	return &EngineHandler{
		cfg:      cfg,
		log:      log,
		analyzer: analyzer,
	}
}

// HandleAnalyze scores every column of the posted snapshot.
func (e *EngineHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req game.AnalyzeRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		writeJSONError(e.log, w, http.StatusBadRequest, err.Error())
		return
	}

	analysis, err := e.analyzer.Analyze(r.Context(), req)
	if err != nil {
		status := httpresponse.StatusFromError(err)
		if status == http.StatusInternalServerError {
			e.log.Errorf("failed to analyze position: %v", err)
			writeJSONError(e.log, w, status, "Failed to analyze position")
			return
		}
		writeJSONError(e.log, w, status, err.Error())
		return
	}

	writeJSON(e.log, w, http.StatusOK, analysis)
}

func writeJSON(log *zap.SugaredLogger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Errorf("writeJSON encode error: %v", err)
	}
}

func writeJSONError(log *zap.SugaredLogger, w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
	log.Debugf("writeJSONError: %s", msg)
}

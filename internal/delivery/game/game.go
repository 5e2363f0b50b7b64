package game

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"connect4/internal/bootstrap"
	"connect4/internal/domain/board"
	"connect4/internal/domain/game"
	"connect4/internal/httpresponse"
	"connect4/internal/report"
	gameuc "connect4/internal/usecase/game"
	"connect4/internal/utils"
)

const writeWait = 10 * time.Second

type GameHandler struct {
	cfg    bootstrap.Config
	log    *zap.SugaredLogger
	gameUC *gameuc.GameUseCase

	upgrader websocket.Upgrader

	activeGamesMu sync.RWMutex
	activeGames   map[string]map[*peer]struct{}

	renderSheet func(io.Writer, game.Game, *board.Board) error
}

// peer serializes writes to one websocket connection.
type peer struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (p *peer) send(v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return p.conn.WriteJSON(v)
}

type liveRequest struct {
	Column *int `json:"column,omitempty"`
	Bot    bool `json:"bot,omitempty"`
}

func NewGameHandler(cfg bootstrap.Config, log *zap.SugaredLogger, gameUC *gameuc.GameUseCase) *GameHandler {
	return &GameHandler{
		cfg:    cfg,
		log:    log,
		gameUC: gameUC,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		activeGames: make(map[string]map[*peer]struct{}),
		renderSheet: report.GameSheet,
	}
}

func (g *GameHandler) Register(r chi.Router) {
	r.Post("/games", g.HandleNewGame)
	r.Get("/games/archive", g.HandleArchive)
	r.Get("/games/{id}", g.HandleGetGame)
	r.Post("/games/{id}/moves", g.HandleMove)
	r.Post("/games/{id}/bot", g.HandleBotMove)
	r.Get("/games/{id}/sheet.pdf", g.HandleSheet)
	r.Get("/games/{id}/ws", g.HandleLiveGame)
}

func (g *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	var req game.CreateGameRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil && !errors.Is(err, utils.ErrEmptyBody) {
		g.log.Infow("bad new game request", "error", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := g.gameUC.CreateGame(r.Context(), req)
	if err != nil {
		g.writeError(w, err)
		return
	}

	g.log.Infof("New game created with id %s", resp.Game.ID)
	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, resp)
}

func (g *GameHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	play, err := g.gameUC.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, play)
}

func (g *GameHandler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		var err error
		if page, err = strconv.Atoi(raw); err != nil || page < 1 {
			httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, "page must be a positive number")
			return
		}
	}

	resp, err := g.gameUC.ListArchive(r.Context(), page)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (g *GameHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req game.MoveRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := g.gameUC.PlayMove(r.Context(), id, req.Column)
	if err != nil {
		g.writeError(w, err)
		return
	}

	g.broadcast(id, nil, resp)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (g *GameHandler) HandleBotMove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	resp, err := g.gameUC.BotMove(r.Context(), id)
	if err != nil {
		g.writeError(w, err)
		return
	}

	g.broadcast(id, nil, resp)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (g *GameHandler) HandleSheet(w http.ResponseWriter, r *http.Request) {
	play, err := g.gameUC.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	b, err := play.Replay()
	if err != nil {
		g.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err = g.renderSheet(&buf, play, b); err != nil {
		g.writeError(w, fmt.Errorf("render sheet for %s: %w", play.ID, err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=\"connect4-"+play.ID+".pdf\"")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err = buf.WriteTo(w); err != nil {
		g.log.Warnw("failed to send game sheet", "id", play.ID, "error", err)
	}
}

// HandleLiveGame streams a game over a websocket. The client sends
// {"column": n} to move or {"bot": true} to ask the engine; every connection
// watching the game receives each resulting MoveResponse.
func (g *GameHandler) HandleLiveGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	play, err := g.gameUC.GetGame(ctx, id)
	if err != nil {
		g.writeError(w, err)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Errorw("upgrade error", "error", err)
		return
	}
	self := &peer{conn: conn}
	g.join(id, self)
	defer func() {
		g.leave(id, self)
		conn.Close()
	}()

	if err = self.send(game.MoveResponse{Game: play}); err != nil {
		return
	}

	for {
		var req liveRequest
		if err = conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.log.Infow("live game read error", "id", id, "error", err)
			}
			return
		}

		var resp game.MoveResponse
		switch {
		case req.Bot:
			resp, err = g.gameUC.BotMove(ctx, id)
		case req.Column != nil:
			resp, err = g.gameUC.PlayMove(ctx, id, *req.Column)
		default:
			err = errors.New("expected a column or a bot request")
		}
		if err != nil {
			if httpresponse.StatusFromError(err) == http.StatusInternalServerError {
				g.log.Errorw("live move failed", "id", id, "error", err)
			}
			if err = self.send(httpresponse.ErrorResponse{Error: err.Error()}); err != nil {
				return
			}
			continue
		}

		g.broadcast(id, self, resp)
		if err = self.send(resp); err != nil {
			return
		}
	}
}

func (g *GameHandler) join(id string, p *peer) {
	g.activeGamesMu.Lock()
	defer g.activeGamesMu.Unlock()
	if g.activeGames[id] == nil {
		g.activeGames[id] = make(map[*peer]struct{})
	}
	g.activeGames[id][p] = struct{}{}
}

func (g *GameHandler) leave(id string, p *peer) {
	g.activeGamesMu.Lock()
	defer g.activeGamesMu.Unlock()
	delete(g.activeGames[id], p)
	if len(g.activeGames[id]) == 0 {
		delete(g.activeGames, id)
	}
}

// broadcast sends resp to every watcher of the game except skip.
func (g *GameHandler) broadcast(id string, skip *peer, resp game.MoveResponse) {
	g.activeGamesMu.RLock()
	peers := make([]*peer, 0, len(g.activeGames[id]))
	for p := range g.activeGames[id] {
		if p != skip {
			peers = append(peers, p)
		}
	}
	g.activeGamesMu.RUnlock()

	for _, p := range peers {
		if err := p.send(resp); err != nil {
			g.log.Infow("dropping live game watcher", "id", id, "error", err)
			p.conn.Close()
		}
	}
}

func (g *GameHandler) writeError(w http.ResponseWriter, err error) {
	if httpresponse.StatusFromError(err) == http.StatusInternalServerError {
		g.log.Errorw("request failed", "error", err)
	}
	httpresponse.WriteError(w, err)
}

// Package rest exposes the game commands over a JSON HTTP API.
package rest

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/louisbranch/whoisit/internal/errors"
	"github.com/louisbranch/whoisit/internal/game/service"
)

// Server routes game commands to the service layer.
type Server struct {
	game   *service.Service
	router *httprouter.Router
}

// New builds the HTTP surface for a game service.
func New(game *service.Service) *Server {
	s := &Server{game: game, router: httprouter.New()}

	s.router.HandlerFunc(http.MethodGet, "/healthz", s.health)
	s.router.HandlerFunc(http.MethodGet, "/api/catalog/categories", s.categories)

	s.router.POST("/api/sessions", s.createSession)
	s.router.GET("/api/sessions/:id", s.getSession)
	s.router.DELETE("/api/sessions/:id", s.deleteSession)
	s.router.POST("/api/sessions/:id/start", s.startGame)
	s.router.POST("/api/sessions/:id/clues", s.revealClue)
	s.router.POST("/api/sessions/:id/points", s.awardPoints)
	s.router.POST("/api/sessions/:id/advance", s.advanceProfile)
	s.router.POST("/api/sessions/:id/finish", s.finishGame)
	s.router.POST("/api/sessions/:id/reset", s.resetGame)
	s.router.POST("/api/sessions/:id/guess", s.checkGuess)
	s.router.GET("/api/sessions/:id/rankings", s.rankings)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) categories(w http.ResponseWriter, r *http.Request) {
	slugs, err := s.game.Categories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": slugs})
}

type createSessionRequest struct {
	PlayerNames []string `json:"playerNames"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createSessionRequest
	if !s.decode(w, r, &req) {
		return
	}
	snapshot, err := s.game.CreateSession(r.Context(), req.PlayerNames)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, snapshot)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	snapshot, err := s.game.LoadSession(r.Context(), params.ByName("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	if err := s.game.DeleteSession(r.Context(), params.ByName("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type startGameRequest struct {
	Categories []string `json:"categories"`
	Rounds     int      `json:"rounds"`
}

func (s *Server) startGame(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	var req startGameRequest
	if !s.decode(w, r, &req) {
		return
	}
	snapshot, err := s.game.StartGame(r.Context(), params.ByName("id"), req.Categories, req.Rounds)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) revealClue(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	clue, snapshot, err := s.game.RevealNextClue(r.Context(), params.ByName("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clue": clue, "session": snapshot})
}

type awardPointsRequest struct {
	PlayerID string `json:"playerId"`
	Points   int    `json:"points"`
}

func (s *Server) awardPoints(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	var req awardPointsRequest
	if !s.decode(w, r, &req) {
		return
	}
	snapshot, err := s.game.AwardPoints(r.Context(), params.ByName("id"), req.PlayerID, req.Points)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) advanceProfile(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	snapshot, err := s.game.AdvanceProfile(r.Context(), params.ByName("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) finishGame(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	snapshot, err := s.game.FinishGame(r.Context(), params.ByName("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

type resetGameRequest struct {
	SamePlayers bool `json:"samePlayers"`
}

func (s *Server) resetGame(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	var req resetGameRequest
	if !s.decode(w, r, &req) {
		return
	}
	snapshot, err := s.game.ResetGame(r.Context(), params.ByName("id"), req.SamePlayers)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

type checkGuessRequest struct {
	Guess string `json:"guess"`
}

func (s *Server) checkGuess(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	var req checkGuessRequest
	if !s.decode(w, r, &req) {
		return
	}
	id := params.ByName("id")
	match, err := s.game.CheckGuess(r.Context(), id, req.Guess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	points, err := s.game.RoundPoints(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"match": match, "points": points})
}

func (s *Server) rankings(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	rankings, err := s.game.Rankings(r.Context(), params.ByName("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rankings": rankings})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("BAD_REQUEST", "invalid JSON body"))
		return false
	}
	return true
}

// writeError renders a domain error with its mapped status and a localized
// user-facing message. Internal messages stay in the logs.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Printf("game api: %v", err)
	}
	locale := requestLocale(r)
	writeJSON(w, status, errorBody(string(code), errors.Localize(err, locale)))
}

func requestLocale(r *http.Request) string {
	accept := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if accept == "" {
		return errors.DefaultLocale
	}
	if idx := strings.IndexAny(accept, ",;"); idx > 0 {
		accept = accept[:idx]
	}
	return accept
}

func errorBody(code, message string) map[string]any {
	return map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("game api: encode response: %v", err)
	}
}

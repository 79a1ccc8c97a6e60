// internal/httpserver/routes_sessions.go
//
// HTTP routes for game sessions.
//   - POST /sessions                  → create an idle session, returns {sessionId, token}
//   - GET  /sessions/{id}             → redacted session view
//   - POST /sessions/{id}/start       → deal keywords and codes, round 1
//   - POST /sessions/{id}/reset       → back to idle from any phase
//   - POST /sessions/{id}/clues       → {"clues":["..","..",".."]}
//   - POST /sessions/{id}/guess       → {"guess":[1,3,2]} or {"guess":"1-3-2"}
//   - POST /sessions/{id}/intercept   → same body as guess
//   - POST /sessions/{id}/continue    → leave whichever result review is showing
//   - POST /sessions/{id}/advance     → leave roundEnd
//
// Every /sessions/{id} route requires the session's token. Every POST
// answers with the updated view.

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/decrypto/internal/game"
	"github.com/robalobadob/decrypto/internal/store"
)

var errBadBody = errors.New("bad request body")

// mountSessions registers all /sessions routes.
func (s *Server) mountSessions() {
	s.r.Post("/sessions", s.handleCreate)
	s.r.Route("/sessions/{id}", func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/", s.handleView)
		r.Post("/start", s.mutate(func(r *http.Request, g *game.Session) error {
			return g.Start(s.opts.Words)
		}))
		r.Post("/reset", s.mutate(func(r *http.Request, g *game.Session) error {
			g.Reset()
			return nil
		}))
		r.Post("/clues", s.handleClues)
		r.Post("/guess", s.handleCode(game.PhaseHumanGuess, (*game.Session).SubmitHumanGuess))
		r.Post("/intercept", s.handleCode(game.PhaseHumanIntercept, (*game.Session).SubmitHumanIntercept))
		r.Post("/continue", s.mutate(func(r *http.Request, g *game.Session) error {
			return continueReview(g)
		}))
		r.Post("/advance", s.mutate(func(r *http.Request, g *game.Session) error {
			return g.AdvanceRound()
		}))
	})
}

type createRes struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}

// handleCreate registers a new idle session and hands out its token.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, err := s.opts.Store.Create(r.Context(), game.NewSession(s.opts.MaxRounds))
	if err != nil {
		log.Error().Err(err).Msg("create session")
		writeError(w, http.StatusInternalServerError, "create_failed", "")
		return
	}
	tok, exp, err := s.tokens.sign(id)
	if err != nil {
		log.Error().Err(err).Msg("sign session token")
		writeError(w, http.StatusInternalServerError, "sign_failed", "")
		return
	}
	s.setSessionCookie(w, tok, exp)
	log.Info().Str("session", id).Msg("session created")
	writeJSON(w, http.StatusCreated, createRes{SessionID: id, Token: tok})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.writeView(w, r, chi.URLParam(r, "id"))
}

// mutate wraps a session action: apply under the session lock, kick the
// runner, answer with the new view.
func (s *Server) mutate(fn func(r *http.Request, g *game.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		err := s.opts.Store.Update(r.Context(), id, func(g *game.Session) error {
			return fn(r, g)
		})
		if err != nil {
			writeActionError(w, err)
			return
		}
		if s.opts.Runner != nil {
			s.opts.Runner.Kick(id)
		}
		s.writeView(w, r, id)
	}
}

type cluesReq struct {
	Clues []string `json:"clues"`
}

// handleClues submits the human encryptor's clues. Body errors are reported
// only once the phase guard has passed.
func (s *Server) handleClues(w http.ResponseWriter, r *http.Request) {
	var req cluesReq
	bodyErr := decodeBody(r, &req)
	s.mutate(func(_ *http.Request, g *game.Session) error {
		if err := g.Expect(game.PhaseHumanEncrypt); err != nil {
			return err
		}
		if bodyErr != nil {
			return bodyErr
		}
		if len(req.Clues) != 3 {
			return fmt.Errorf("%w: want 3 clues, got %d", errBadBody, len(req.Clues))
		}
		return g.SubmitHumanClues(game.Clues{req.Clues[0], req.Clues[1], req.Clues[2]})
	})(w, r)
}

type codeReq struct {
	Guess json.RawMessage `json:"guess"`
}

// handleCode serves the guess and intercept routes; both carry a code.
func (s *Server) handleCode(phase game.Phase, submit func(*game.Session, game.Code) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req codeReq
		bodyErr := decodeBody(r, &req)
		s.mutate(func(_ *http.Request, g *game.Session) error {
			if err := g.Expect(phase); err != nil {
				return err
			}
			if bodyErr != nil {
				return bodyErr
			}
			code, err := decodeCode(req.Guess)
			if err != nil {
				return err
			}
			return submit(g, code)
		})(w, r)
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

// decodeCode accepts a JSON array [1,3,2] or free text "1-3-2". Range and
// distinctness are left to the engine.
func decodeCode(raw json.RawMessage) (game.Code, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return game.Code{}, fmt.Errorf("%w: missing guess", errBadBody)
	}
	var nums []int
	if err := json.Unmarshal(raw, &nums); err == nil {
		if len(nums) != 3 {
			return game.Code{}, fmt.Errorf("%w: want 3 numbers, got %d", game.ErrInvalidCode, len(nums))
		}
		return game.Code{nums[0], nums[1], nums[2]}, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return game.Code{}, fmt.Errorf("%w: guess must be an array or a string", errBadBody)
	}
	return game.ParseCodeInput(text)
}

// continueReview leaves whichever result review is active.
func continueReview(g *game.Session) error {
	switch g.Phase {
	case game.PhaseHumanPhaseResult:
		return g.ContinueHumanPhase()
	case game.PhaseAIPhaseResult:
		return g.ContinueAIPhase()
	default:
		return fmt.Errorf("%w: in %s, want %s or %s", game.ErrWrongPhase, g.Phase,
			game.PhaseHumanPhaseResult, game.PhaseAIPhaseResult)
	}
}

func (s *Server) writeView(w http.ResponseWriter, r *http.Request, id string) {
	v, err := s.opts.Store.View(r.Context(), id)
	if err != nil {
		writeActionError(w, err)
		return
	}
	outstanding := false
	if s.opts.Runner != nil {
		outstanding = s.opts.Runner.Outstanding(id)
	}
	writeJSON(w, http.StatusOK, redact(id, v, outstanding))
}

// writeActionError maps engine and store errors onto status codes.
func writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "")
	case errors.Is(err, game.ErrWrongPhase):
		writeError(w, http.StatusConflict, "wrong_phase", err.Error())
	case errors.Is(err, game.ErrBlankClue), errors.Is(err, game.ErrInvalidCode), errors.Is(err, errBadBody):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		log.Error().Err(err).Msg("session action failed")
		writeError(w, http.StatusInternalServerError, "internal", strings.TrimSpace(err.Error()))
	}
}

// internal/httpserver/view.go
//
// What the human team is allowed to see of a session.
// Hidden until the AI half of the round is revealed (aiPhaseResult,
// roundEnd, gameOver): the AI code and the AI team's own guess.
// Hidden until gameOver: the AI keywords and any reasoning log that was
// produced with them in the prompt (encryptor, guesser). Interceptor logs
// only ever see public clues and stay visible.

package httpserver

import (
	"github.com/robalobadob/decrypto/internal/game"
)

type sessionView struct {
	SessionID string `json:"sessionId"`
	game.Session
	ModelCallOutstanding bool `json:"modelCallOutstanding"`
}

func aiHalfRevealed(p game.Phase) bool {
	return p == game.PhaseAIPhaseResult || p == game.PhaseRoundEnd || p == game.PhaseGameOver
}

// redact strips s (a snapshot) down to the human team's view.
func redact(id string, s game.Session, outstanding bool) sessionView {
	if !aiHalfRevealed(s.Phase) {
		s.CurrentAICode = nil
		s.CurrentAITeamGuess = nil
	}
	if s.Phase != game.PhaseGameOver {
		s.AITeam.Keywords = [4]string{}
		s.AILogs = publicLogs(s.AILogs)
		for i := range s.History {
			s.History[i].AILogs = publicLogs(s.History[i].AILogs)
		}
	}
	return sessionView{SessionID: id, Session: s, ModelCallOutstanding: outstanding}
}

func publicLogs(logs []game.ReasoningLog) []game.ReasoningLog {
	out := make([]game.ReasoningLog, 0, len(logs))
	for _, l := range logs {
		if l.Role == game.RoleInterceptor {
			out = append(out, l)
		}
	}
	return out
}

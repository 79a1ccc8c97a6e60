// internal/game/engine.go
//
// Phase state machine for a single Decrypto session.
// Responsibilities:
//   - Start/reset the session (keywords, codes, counters, history).
//   - Accept each action only in the phase that expects it (phase guard).
//   - Validate submissions (blank clues, malformed codes).
//   - Score guesses: human/AI miscommunications and interceptions.
//   - Record the finished round and decide termination at round boundaries.
//
// Cycle per round:
//   humanEncrypt → humanGuess → aiIntercept → humanPhaseResult →
//   aiEncrypt → aiGuess → humanIntercept → aiPhaseResult → roundEnd →
//   humanEncrypt (next round) | gameOver
//
// Every method either mutates the session and returns nil, or returns an
// error and leaves the session exactly as it was.
package game

import (
	"fmt"
)

// DefaultMaxRounds is the round limit used when none is configured.
const DefaultMaxRounds = 8

// keywordsPerTeam is fixed by the game: codes index keywords 1..4.
const keywordsPerTeam = 4

// KeywordSource supplies distinct keywords at game start.
type KeywordSource interface {
	Draw(n int) ([]string, error)
}

// Option customises a Session at construction.
type Option func(*Session)

// WithCodeSource replaces GenerateCode, e.g. for deterministic tests.
func WithCodeSource(f func() Code) Option {
	return func(s *Session) { s.newCode = f }
}

// NewSession constructs an idle session. maxRounds <= 0 selects DefaultMaxRounds.
func NewSession(maxRounds int, opts ...Option) *Session {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	s := &Session{MaxRounds: maxRounds, newCode: GenerateCode}
	for _, o := range opts {
		o(s)
	}
	s.Reset()
	return s
}

// Reset returns the session to its pristine idle state from any phase.
// MaxRounds and the code source are configuration and survive.
func (s *Session) Reset() {
	*s = Session{
		Phase:     PhaseIdle,
		MaxRounds: s.MaxRounds,
		History:   History{},
		AILogs:    []ReasoningLog{},
		newCode:   s.newCode,
	}
	if s.newCode == nil {
		s.newCode = GenerateCode
	}
}

// Start begins round 1: eight distinct keywords (four per team), fresh codes,
// zeroed counters and an empty history.
func (s *Session) Start(src KeywordSource) error {
	if err := s.Expect(PhaseIdle); err != nil {
		return err
	}
	words, err := src.Draw(2 * keywordsPerTeam)
	if err != nil {
		return fmt.Errorf("draw keywords: %w", err)
	}
	if !distinct(words, 2*keywordsPerTeam) {
		return fmt.Errorf("%w: got %d", ErrNotEnoughKeywords, len(words))
	}

	var human, ai [4]string
	copy(human[:], words[:keywordsPerTeam])
	copy(ai[:], words[keywordsPerTeam:2*keywordsPerTeam])

	s.Reset()
	s.Phase = PhaseHumanEncrypt
	s.Round = 1
	s.HumanTeam = TeamState{Keywords: human}
	s.AITeam = TeamState{Keywords: ai}
	s.drawCodes()
	return nil
}

// SubmitHumanClues stores the human encryptor's three clues.
func (s *Session) SubmitHumanClues(clues Clues) error {
	if err := s.Expect(PhaseHumanEncrypt); err != nil {
		return err
	}
	if i := clues.Blank(); i >= 0 {
		return fmt.Errorf("%w: clue %d", ErrBlankClue, i+1)
	}
	c := clues.trimmed()
	s.CurrentHumanClues = &c
	s.Phase = PhaseHumanGuess
	return nil
}

// SubmitHumanGuess records the human receiver's decode of its own clues.
// A wrong guess is a miscommunication; play continues either way.
func (s *Session) SubmitHumanGuess(guess Code) error {
	if err := s.Expect(PhaseHumanGuess); err != nil {
		return err
	}
	if err := validCode(guess); err != nil {
		return err
	}
	if !CheckGuess(guess, *s.CurrentHumanCode) {
		s.HumanTeam.MiscommunicationCount++
	}
	s.CurrentHumanGuess = &guess
	s.Phase = PhaseAIIntercept
	return nil
}

// SubmitAIIntercept records the model's attempt at the human code.
func (s *Session) SubmitAIIntercept(guess Code, log ReasoningLog) error {
	if err := s.Expect(PhaseAIIntercept); err != nil {
		return err
	}
	if err := validCode(guess); err != nil {
		return err
	}
	if CheckGuess(guess, *s.CurrentHumanCode) {
		s.AITeam.InterceptCount++
	}
	s.CurrentAIInterceptGuess = &guess
	s.AILogs = append(s.AILogs, log)
	s.Phase = PhaseHumanPhaseResult
	return nil
}

// ContinueHumanPhase leaves the human result review and hands over to the
// model-driven team.
func (s *Session) ContinueHumanPhase() error {
	if err := s.Expect(PhaseHumanPhaseResult); err != nil {
		return err
	}
	s.Phase = PhaseAIEncrypt
	s.AIThinking = true
	return nil
}

// SubmitAIClues stores the model encryptor's clues.
func (s *Session) SubmitAIClues(clues Clues, log ReasoningLog) error {
	if err := s.Expect(PhaseAIEncrypt); err != nil {
		return err
	}
	if i := clues.Blank(); i >= 0 {
		return fmt.Errorf("%w: clue %d", ErrBlankClue, i+1)
	}
	c := clues.trimmed()
	s.CurrentAIClues = &c
	s.AILogs = append(s.AILogs, log)
	s.Phase = PhaseAIGuess
	return nil
}

// SubmitAIGuess records the model receiver's decode of its own team's clues.
func (s *Session) SubmitAIGuess(guess Code, log ReasoningLog) error {
	if err := s.Expect(PhaseAIGuess); err != nil {
		return err
	}
	if err := validCode(guess); err != nil {
		return err
	}
	if !CheckGuess(guess, *s.CurrentAICode) {
		s.AITeam.MiscommunicationCount++
	}
	s.CurrentAITeamGuess = &guess
	s.AILogs = append(s.AILogs, log)
	s.AIThinking = false
	s.Phase = PhaseHumanIntercept
	return nil
}

// SubmitHumanIntercept records the human attempt at the AI code.
func (s *Session) SubmitHumanIntercept(guess Code) error {
	if err := s.Expect(PhaseHumanIntercept); err != nil {
		return err
	}
	if err := validCode(guess); err != nil {
		return err
	}
	if CheckGuess(guess, *s.CurrentAICode) {
		s.HumanTeam.InterceptCount++
	}
	s.CurrentHumanInterceptGuess = &guess
	s.Phase = PhaseAIPhaseResult
	return nil
}

// ContinueAIPhase closes the round: both halves go into History and the
// reasoning-log buffer is cleared.
func (s *Session) ContinueAIPhase() error {
	if err := s.Expect(PhaseAIPhaseResult); err != nil {
		return err
	}
	human := newPhaseResult(*s.CurrentHumanCode, *s.CurrentHumanClues, s.CurrentHumanGuess, s.CurrentAIInterceptGuess)
	ai := newPhaseResult(*s.CurrentAICode, *s.CurrentAIClues, s.CurrentAITeamGuess, s.CurrentHumanInterceptGuess)
	s.History = recordRound(s.History, s.Round, human, ai, s.AILogs)
	s.AILogs = []ReasoningLog{}
	s.Phase = PhaseRoundEnd
	return nil
}

// AdvanceRound moves past roundEnd: either the game ends, or a fresh
// round starts with new codes and empty slots.
func (s *Session) AdvanceRound() error {
	if err := s.Expect(PhaseRoundEnd); err != nil {
		return err
	}
	next := s.Round + 1
	if res := CheckGameEnd(s.HumanTeam, s.AITeam, next, s.MaxRounds); res.Ended {
		s.Round = next
		s.Phase = PhaseGameOver
		s.Winner = res.Winner
		s.EndReason = res.Reason
		return nil
	}
	s.Round = next
	s.drawCodes()
	s.AIThinking = false
	s.Phase = PhaseHumanEncrypt
	return nil
}

// SetAIThinking toggles the informational "model is working" flag.
func (s *Session) SetAIThinking(v bool) { s.AIThinking = v }

// Snapshot returns a deep copy that shares no memory with s.
func (s *Session) Snapshot() Session {
	out := *s
	out.HumanTeam = s.HumanTeam
	out.AITeam = s.AITeam
	out.CurrentHumanCode = cloneCode(s.CurrentHumanCode)
	out.CurrentAICode = cloneCode(s.CurrentAICode)
	out.CurrentHumanClues = cloneClues(s.CurrentHumanClues)
	out.CurrentAIClues = cloneClues(s.CurrentAIClues)
	out.CurrentHumanGuess = cloneCode(s.CurrentHumanGuess)
	out.CurrentAITeamGuess = cloneCode(s.CurrentAITeamGuess)
	out.CurrentAIInterceptGuess = cloneCode(s.CurrentAIInterceptGuess)
	out.CurrentHumanInterceptGuess = cloneCode(s.CurrentHumanInterceptGuess)
	out.AILogs = append([]ReasoningLog{}, s.AILogs...)
	out.History = make(History, len(s.History))
	for i, r := range s.History {
		r.HumanPhase = clonePhaseResult(r.HumanPhase)
		r.AIPhase = clonePhaseResult(r.AIPhase)
		r.AILogs = append([]ReasoningLog{}, r.AILogs...)
		out.History[i] = r
	}
	return out
}

// drawCodes starts a round: new secrets, every per-round slot cleared.
func (s *Session) drawCodes() {
	hc, ac := s.newCode(), s.newCode()
	s.CurrentHumanCode = &hc
	s.CurrentAICode = &ac
	s.CurrentHumanClues = nil
	s.CurrentAIClues = nil
	s.CurrentHumanGuess = nil
	s.CurrentAITeamGuess = nil
	s.CurrentAIInterceptGuess = nil
	s.CurrentHumanInterceptGuess = nil
	s.AILogs = []ReasoningLog{}
}

// Expect is the phase guard every action runs before validating input.
func (s *Session) Expect(p Phase) error {
	if s.Phase != p {
		return fmt.Errorf("%w: in %s, want %s", ErrWrongPhase, s.Phase, p)
	}
	return nil
}

func validCode(c Code) error {
	if !c.Valid() {
		return fmt.Errorf("%w: got %v", ErrInvalidCode, [3]int(c))
	}
	return nil
}

// distinct reports whether words holds at least n distinct non-empty
// entries in its first n positions.
func distinct(words []string, n int) bool {
	if len(words) < n {
		return false
	}
	seen := make(map[string]struct{}, n)
	for _, w := range words[:n] {
		if w == "" {
			return false
		}
		if _, dup := seen[w]; dup {
			return false
		}
		seen[w] = struct{}{}
	}
	return true
}

// internal/game/types.go
//
// Core type definitions for the Decrypto game engine.
// Defines:
//   - Code / Clues: the per-round secret and the three hints given for it.
//   - Phase: the per-round state machine states.
//   - TeamState, PhaseResult, RoundData, ReasoningLog: scoring + history records.
//   - Session: the root aggregate owned by the state machine (engine.go).

package game

import "time"

// Code is an ordered triple of distinct keyword numbers drawn from 1..4.
type Code [3]int

// Clues holds one hint per position of a Code.
type Clues [3]string

// Phase is one step of the per-round state machine.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseHumanEncrypt     Phase = "humanEncrypt"
	PhaseHumanGuess       Phase = "humanGuess"
	PhaseAIIntercept      Phase = "aiIntercept"
	PhaseHumanPhaseResult Phase = "humanPhaseResult"
	PhaseAIEncrypt        Phase = "aiEncrypt"
	PhaseAIGuess          Phase = "aiGuess"
	PhaseHumanIntercept   Phase = "humanIntercept"
	PhaseAIPhaseResult    Phase = "aiPhaseResult"
	PhaseRoundEnd         Phase = "roundEnd"
	PhaseGameOver         Phase = "gameOver"
)

// ModelDriven reports whether the phase waits on the model-driven team.
func (p Phase) ModelDriven() bool {
	return p == PhaseAIIntercept || p == PhaseAIEncrypt || p == PhaseAIGuess
}

// Team identifies one side of the table.
type Team string

const (
	TeamHuman Team = "human"
	TeamAI    Team = "ai"
)

// Winner is the terminal outcome of a game. Empty while the game is running.
type Winner string

const (
	WinnerNone  Winner = ""
	WinnerHuman Winner = "human"
	WinnerAI    Winner = "ai"
	WinnerDraw  Winner = "draw"
)

// Role is the job a model-driven player performed when producing a ReasoningLog.
type Role string

const (
	RoleEncryptor   Role = "encryptor"
	RoleGuesser     Role = "guesser"
	RoleInterceptor Role = "interceptor"
)

// TeamState is one team's keywords and cumulative counters.
// Counters are only ever incremented by the state machine.
type TeamState struct {
	Keywords              [4]string `json:"keywords"`
	InterceptCount        int       `json:"interceptCount"`
	MiscommunicationCount int       `json:"miscommunicationCount"`
}

// PhaseResult is one team's performance for one round.
type PhaseResult struct {
	Code             Code  `json:"code"`
	Clues            Clues `json:"clues"`
	TeamGuess        *Code `json:"teamGuess"`
	TeamGuessCorrect *bool `json:"teamGuessCorrect"`
	InterceptGuess   *Code `json:"interceptGuess"`
	InterceptCorrect *bool `json:"interceptCorrect"`
}

// ReasoningLog records one model call. It never affects scoring.
type ReasoningLog struct {
	Role      Role      `json:"role"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	Reasoning string    `json:"reasoning,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RoundData is the immutable record of a completed round.
type RoundData struct {
	Round      int            `json:"round"`
	HumanPhase PhaseResult    `json:"humanPhase"`
	AIPhase    PhaseResult    `json:"aiPhase"`
	AILogs     []ReasoningLog `json:"aiLogs"`
}

// History is the ordered list of completed rounds.
type History []RoundData

// Session holds the state of one game. It is not safe for concurrent use;
// callers serialise access (see the store package).
type Session struct {
	Phase     Phase     `json:"phase"`
	Round     int       `json:"round"`
	MaxRounds int       `json:"maxRounds"`
	HumanTeam TeamState `json:"humanTeam"`
	AITeam    TeamState `json:"aiTeam"`

	CurrentHumanCode           *Code  `json:"currentHumanCode"`
	CurrentAICode              *Code  `json:"currentAICode"`
	CurrentHumanClues          *Clues `json:"currentHumanClues"`
	CurrentAIClues             *Clues `json:"currentAIClues"`
	CurrentHumanGuess          *Code  `json:"currentHumanGuess"`
	CurrentAITeamGuess         *Code  `json:"currentAITeamGuess"`
	CurrentAIInterceptGuess    *Code  `json:"currentAIInterceptGuess"`
	CurrentHumanInterceptGuess *Code  `json:"currentHumanInterceptGuess"`

	History   History        `json:"history"`
	AILogs    []ReasoningLog `json:"aiLogs"`
	Winner    Winner         `json:"winner"`
	EndReason string         `json:"endReason,omitempty"`

	// AIThinking is informational only; the state machine never reads it.
	AIThinking bool `json:"aiThinking"`

	newCode func() Code
}

// internal/agent/agent.go
//
// The model-driven team.
// Responsibilities:
//   - Define the Player contract the runner drives (encrypt / guess / intercept).
//   - Define the Completer contract a language-model backend satisfies.
//   - LLMPlayer (player.go) builds prompts, calls a Completer and extracts
//     structured results from the reply text (parse.go).
//
// A Player either returns a valid structured result or an error. It always
// returns a ReasoningLog describing what was sent and received, so that
// failures can still be audited.

package agent

import (
	"context"
	"errors"

	"github.com/robalobadob/decrypto/internal/game"
)

// ErrUnparseable is returned when a model reply holds no usable result.
var ErrUnparseable = errors.New("agent: could not extract result from model output")

// EncryptRequest asks for one clue per position of Code.
type EncryptRequest struct {
	Keywords [4]string
	Code     game.Code
	History  game.History // the acting team's own past rounds
}

// GuessRequest asks the team's receiver to decode its own encryptor's clues.
type GuessRequest struct {
	Keywords [4]string
	Clues    game.Clues
	History  game.History
}

// InterceptRequest asks for the opponent's code from its public clues only.
type InterceptRequest struct {
	Opponent game.Team
	Clues    game.Clues
	History  game.History
}

// Player is the model-driven side of the table.
type Player interface {
	Encrypt(ctx context.Context, req EncryptRequest) (game.Clues, game.ReasoningLog, error)
	Guess(ctx context.Context, req GuessRequest) (game.Code, game.ReasoningLog, error)
	Intercept(ctx context.Context, req InterceptRequest) (game.Code, game.ReasoningLog, error)
}

// Message is one chat turn sent to a model.
type Message struct {
	Role    string `json:"role"` // "system" | "user" | "assistant"
	Content string `json:"content"`
}

// CompleteOptions tune a single completion.
type CompleteOptions struct {
	Temperature float64
	// Thinking selects the provider's reasoning model where one exists.
	Thinking bool
}

// Completion is a model reply. Reasoning is the provider's separate
// chain-of-thought channel, when it exposes one.
type Completion struct {
	Content   string
	Reasoning string
}

// Completer is a chat-completion backend.
type Completer interface {
	Complete(ctx context.Context, msgs []Message, opts CompleteOptions) (Completion, error)
}

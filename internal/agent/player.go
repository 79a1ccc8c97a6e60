// internal/agent/player.go
//
// LLMPlayer: the Player backed by a chat-completion model.
// Responsibilities:
//   - Render the role prompt from the request and the team's history.
//   - Call the Completer with the role's temperature.
//   - Extract clues or a code from the reply.
//
// Notes:
//   - The log is filled in even when the call or the extraction fails.
//   - The AI team always plays as game.TeamAI; its own history is read from
//     that half of each round.

package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/robalobadob/decrypto/internal/game"
	"github.com/rs/zerolog/log"
)

// Role temperatures. Encryption wants some variety; decoding does not.
const (
	encryptTemperature = 0.7
	decodeTemperature  = 0.3
)

// LLMPlayer implements Player over a Completer.
type LLMPlayer struct {
	completer Completer
	thinking  bool
	now       func() time.Time
}

// NewLLMPlayer returns a player. thinking selects the reasoning model and
// short-answer prompts for the guess and intercept roles.
func NewLLMPlayer(c Completer, thinking bool) *LLMPlayer {
	return &LLMPlayer{completer: c, thinking: thinking, now: time.Now}
}

// Encrypt produces one clue per position of req.Code.
func (p *LLMPlayer) Encrypt(ctx context.Context, req EncryptRequest) (game.Clues, game.ReasoningLog, error) {
	round := len(req.History) + 1
	system := render("encryptSystem", encryptData{
		Keywords:     req.Keywords,
		KeywordClues: req.History.KeywordClues(game.TeamAI, req.Keywords),
		Strategy:     strategyFor(round),
	})
	user := render("encryptUser", encryptData{Keywords: req.Keywords, Code: req.Code})

	entry := p.entry(game.RoleEncryptor, fmt.Sprintf("round %d, code %s, keywords %v", round, req.Code, req.Keywords))
	out, err := p.complete(ctx, system, user, CompleteOptions{Temperature: encryptTemperature}, &entry)
	if err != nil {
		return game.Clues{}, entry, err
	}
	clues, ok := ParseClues(out)
	if !ok {
		return game.Clues{}, entry, fmt.Errorf("%w: encryptor reply %q", ErrUnparseable, out)
	}
	return clues, entry, nil
}

// Guess decodes the team's own clues.
func (p *LLMPlayer) Guess(ctx context.Context, req GuessRequest) (game.Code, game.ReasoningLog, error) {
	system := render("guessSystem", guessData{
		Keywords:     req.Keywords,
		KeywordClues: req.History.KeywordClues(game.TeamAI, req.Keywords),
		Thinking:     p.thinking,
	})
	user := render("cluesUser", cluesData{
		Lead:     "Your encryptor's clues this round",
		Clues:    req.Clues,
		Ask:      "Analyse each clue against the four keywords, then give the code.",
		Thinking: p.thinking,
	})

	entry := p.entry(game.RoleGuesser, fmt.Sprintf("clues %v, keywords %v", req.Clues, req.Keywords))
	return p.decode(ctx, system, user, &entry)
}

// Intercept cracks the opponent's code from its public clue history.
func (p *LLMPlayer) Intercept(ctx context.Context, req InterceptRequest) (game.Code, game.ReasoningLog, error) {
	system := render("interceptSystem", interceptData{
		ClueTable: req.History.ClueTable(req.Opponent),
		Thinking:  p.thinking,
	})
	user := render("cluesUser", cluesData{
		Lead:     "The opponents' clues this round",
		Clues:    req.Clues,
		Ask:      "Infer each keyword's theme from the history, then match this round's clues.",
		Thinking: p.thinking,
	})

	entry := p.entry(game.RoleInterceptor, fmt.Sprintf("opponent %s, clues %v, %d past rounds", req.Opponent, req.Clues, len(req.History)))
	return p.decode(ctx, system, user, &entry)
}

func (p *LLMPlayer) decode(ctx context.Context, system, user string, entry *game.ReasoningLog) (game.Code, game.ReasoningLog, error) {
	out, err := p.complete(ctx, system, user, CompleteOptions{Temperature: decodeTemperature, Thinking: p.thinking}, entry)
	if err != nil {
		return game.Code{}, *entry, err
	}
	code, ok := ParseCode(out)
	if !ok {
		return game.Code{}, *entry, fmt.Errorf("%w: %s reply %q", ErrUnparseable, entry.Role, out)
	}
	return code, *entry, nil
}

// complete runs one system+user exchange and records the reply on entry.
func (p *LLMPlayer) complete(ctx context.Context, system, user string, opts CompleteOptions, entry *game.ReasoningLog) (string, error) {
	msgs := []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
	res, err := p.completer.Complete(ctx, msgs, opts)
	if err != nil {
		entry.Output = "error: " + err.Error()
		log.Warn().Err(err).Str("role", string(entry.Role)).Msg("model call failed")
		return "", err
	}
	entry.Output = res.Content
	entry.Reasoning = res.Reasoning
	return res.Content, nil
}

func (p *LLMPlayer) entry(role game.Role, input string) game.ReasoningLog {
	return game.ReasoningLog{Role: role, Input: input, Timestamp: p.now()}
}

// NewCompleter picks the backend for ep's provider kind.
func NewCompleter(ctx context.Context, ep Endpoint, timeout time.Duration) (Completer, error) {
	switch ep.Provider.Kind {
	case KindGemini:
		return NewGeminiClient(ctx, ep, timeout)
	case KindOpenAI, "":
		return NewOpenAIClient(ep, timeout), nil
	default:
		return nil, fmt.Errorf("provider %q: unknown kind %q", ep.Provider.ID, ep.Provider.Kind)
	}
}

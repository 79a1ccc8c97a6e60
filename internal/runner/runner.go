// internal/runner/runner.go
//
// Drives the model-driven phases of every session.
// Responsibilities:
//   - Notice when a session enters aiIntercept, aiEncrypt or aiGuess.
//   - Snapshot the inputs under the session lock, release it, call the
//     Player with a per-call timeout, then re-acquire the lock and submit.
//   - Substitute a fallback result when the Player fails, so a game never
//     stalls on a bad model call.
//
// Notes:
//   - At most one call per (session, round, phase) is in flight.
//   - A result whose turn has passed (reset, new game) is dropped; the
//     engine's phase guard rejects anything that slips through.
//   - Background goroutines are tracked; Close cancels and drains them.

package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/robalobadob/decrypto/internal/agent"
	"github.com/robalobadob/decrypto/internal/game"
	"github.com/robalobadob/decrypto/internal/store"
)

// DefaultTimeout bounds one model call when none is configured.
const DefaultTimeout = 90 * time.Second

// Fallback results used when the model fails.
var (
	FallbackCode  = game.Code{1, 2, 3}
	FallbackClues = game.Clues{"clue 1", "clue 2", "clue 3"}
)

// errStale marks a result whose turn ended while the call was running.
var errStale = errors.New("runner: stale result")

// Runner executes model phases in the background.
type Runner struct {
	store   store.Store
	player  agent.Player
	timeout time.Duration
	now     func() time.Time

	calls singleflight.Group
	wg    sync.WaitGroup

	mu          sync.Mutex // guards outstanding and wg.Add against Close
	outstanding map[string]int

	ctx    context.Context
	cancel context.CancelFunc
}

// New returns a Runner. timeout <= 0 selects DefaultTimeout.
func New(st store.Store, p agent.Player, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		store:       st,
		player:      p,
		timeout:     timeout,
		now:         time.Now,
		outstanding: make(map[string]int),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Kick starts background work for session id if it is waiting on the model.
// It is safe to call after every mutation; duplicate kicks share one call.
func (r *Runner) Kick(id string) {
	v, err := r.store.View(r.ctx, id)
	if err != nil || !v.Phase.ModelDriven() {
		return
	}
	r.mu.Lock()
	if r.ctx.Err() != nil {
		r.mu.Unlock()
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()
	go func() {
		defer r.wg.Done()
		if err := r.Drive(r.ctx, id); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Str("session", id).Msg("model phase failed")
		}
	}()
}

// Drive runs model phases for id until the session waits on the human team.
func (r *Runner) Drive(ctx context.Context, id string) error {
	for {
		v, err := r.store.View(ctx, id)
		if err != nil {
			return err
		}
		if !v.Phase.ModelDriven() {
			return nil
		}
		_, err, _ = r.calls.Do(flightKey(id, v), func() (any, error) {
			return nil, r.step(ctx, id, v)
		})
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// flightKey names the single model call allowed for a session's turn.
func flightKey(id string, v game.Session) string {
	return fmt.Sprintf("%s/%d/%s", id, v.Round, v.Phase)
}

// Step performs the model call for the session's current phase and submits
// the result. It is a no-op outside model phases and for stale results.
func (r *Runner) Step(ctx context.Context, id string) error {
	v, err := r.store.View(ctx, id)
	if err != nil {
		return err
	}
	_, err, _ = r.calls.Do(flightKey(id, v), func() (any, error) {
		return nil, r.step(ctx, id, v)
	})
	return err
}

// step calls the model only while the session is still on want, the turn
// the caller keyed its flight on. Once the session has moved on, another
// flight owns the new turn and step returns nil without a call.
func (r *Runner) step(ctx context.Context, id string, want game.Session) error {
	turn, err := r.store.View(ctx, id)
	if err != nil {
		return err
	}
	if !turn.Phase.ModelDriven() || !sameTurn(&turn, &want) {
		return nil
	}

	r.track(id, 1)
	defer r.track(id, -1)

	if turn.Phase == game.PhaseAIIntercept {
		_ = r.apply(ctx, id, turn, func(s *game.Session) error {
			s.SetAIThinking(true)
			return nil
		})
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := r.now()
	var submit func(*game.Session) error
	switch turn.Phase {
	case game.PhaseAIIntercept:
		submit = r.intercept(callCtx, turn)
	case game.PhaseAIEncrypt:
		submit = r.encrypt(callCtx, turn)
	case game.PhaseAIGuess:
		submit = r.guess(callCtx, turn)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	err = r.apply(ctx, id, turn, submit)
	switch {
	case errors.Is(err, errStale), errors.Is(err, game.ErrWrongPhase):
		log.Debug().Err(err).Str("session", id).Str("phase", string(turn.Phase)).Msg("dropping stale model result")
		return nil
	case err != nil:
		return err
	}
	log.Debug().
		Str("session", id).
		Str("phase", string(turn.Phase)).
		Int("round", turn.Round).
		Dur("took", r.now().Sub(start)).
		Msg("model phase done")
	return nil
}

func (r *Runner) intercept(ctx context.Context, turn game.Session) func(*game.Session) error {
	code, entry, err := r.player.Intercept(ctx, agent.InterceptRequest{
		Opponent: game.TeamHuman,
		Clues:    *turn.CurrentHumanClues,
		History:  turn.History,
	})
	code, entry = r.checkCode(code, entry, err, game.RoleInterceptor)
	return func(s *game.Session) error {
		if err := s.SubmitAIIntercept(code, entry); err != nil {
			return err
		}
		s.SetAIThinking(false)
		return nil
	}
}

func (r *Runner) encrypt(ctx context.Context, turn game.Session) func(*game.Session) error {
	clues, entry, err := r.player.Encrypt(ctx, agent.EncryptRequest{
		Keywords: turn.AITeam.Keywords,
		Code:     *turn.CurrentAICode,
		History:  turn.History,
	})
	if err == nil && clues.Blank() >= 0 {
		err = fmt.Errorf("%w: clue %d", game.ErrBlankClue, clues.Blank()+1)
	}
	if err != nil {
		r.fallbackLog(&entry, game.RoleEncryptor, err)
		clues = FallbackClues
	}
	return func(s *game.Session) error { return s.SubmitAIClues(clues, entry) }
}

func (r *Runner) guess(ctx context.Context, turn game.Session) func(*game.Session) error {
	code, entry, err := r.player.Guess(ctx, agent.GuessRequest{
		Keywords: turn.AITeam.Keywords,
		Clues:    *turn.CurrentAIClues,
		History:  turn.History,
	})
	code, entry = r.checkCode(code, entry, err, game.RoleGuesser)
	return func(s *game.Session) error { return s.SubmitAIGuess(code, entry) }
}

// checkCode swaps in the fallback when the call failed or returned a code
// the engine would reject.
func (r *Runner) checkCode(code game.Code, entry game.ReasoningLog, err error, role game.Role) (game.Code, game.ReasoningLog) {
	if err == nil && !code.Valid() {
		err = fmt.Errorf("%w: got %v", game.ErrInvalidCode, [3]int(code))
	}
	if err != nil {
		r.fallbackLog(&entry, role, err)
		return FallbackCode, entry
	}
	return code, entry
}

func (r *Runner) fallbackLog(entry *game.ReasoningLog, role game.Role, err error) {
	log.Warn().Err(err).Str("role", string(role)).Msg("model failed, using fallback")
	entry.Role = role
	entry.Output = "error: " + err.Error()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.now()
	}
}

// apply runs fn under the session lock if the session is still on turn.
func (r *Runner) apply(ctx context.Context, id string, turn game.Session, fn func(*game.Session) error) error {
	return r.store.Update(ctx, id, func(s *game.Session) error {
		if !sameTurn(s, &turn) {
			return errStale
		}
		return fn(s)
	})
}

// sameTurn reports whether s is still at the point turn was taken from.
// Keywords and codes tell a restarted game apart from the original.
func sameTurn(s, turn *game.Session) bool {
	return s.Phase == turn.Phase &&
		s.Round == turn.Round &&
		s.AITeam.Keywords == turn.AITeam.Keywords &&
		s.HumanTeam.Keywords == turn.HumanTeam.Keywords &&
		equalCode(s.CurrentHumanCode, turn.CurrentHumanCode) &&
		equalCode(s.CurrentAICode, turn.CurrentAICode)
}

func equalCode(a, b *game.Code) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (r *Runner) track(id string, delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outstanding[id] += delta
	if r.outstanding[id] <= 0 {
		delete(r.outstanding, id)
	}
}

// Outstanding reports whether a model call for id is in flight.
func (r *Runner) Outstanding(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outstanding[id] > 0
}

// Wait blocks until every background call has finished.
func (r *Runner) Wait() { r.wg.Wait() }

// Close cancels in-flight calls and waits for them to return.
func (r *Runner) Close() {
	r.mu.Lock()
	r.cancel()
	r.mu.Unlock()
	r.wg.Wait()
}

package game

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticWords []string

func (w staticWords) Draw(n int) ([]string, error) {
	if len(w) < n {
		return append([]string{}, w...), nil
	}
	return append([]string{}, w[:n]...), nil
}

type failingWords struct{}

func (failingWords) Draw(int) ([]string, error) { return nil, errors.New("boom") }

var eightWords = staticWords{"ocean", "car", "bird", "door", "piano", "moon", "bread", "river"}

// codeSeq hands out codes in order, wrapping around.
func codeSeq(codes ...Code) func() Code {
	i := 0
	return func() Code {
		c := codes[i%len(codes)]
		i++
		return c
	}
}

var (
	humanCode = Code{1, 2, 3}
	aiCode    = Code{4, 3, 2}
)

func startedSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(8, WithCodeSource(codeSeq(humanCode, aiCode)))
	require.NoError(t, s.Start(eightWords))
	return s
}

func aiLog(role Role) ReasoningLog {
	return ReasoningLog{Role: role, Input: "in", Output: "out", Timestamp: time.Unix(1700000000, 0)}
}

// playRound drives one full round with the given guesses.
func playRound(t *testing.T, s *Session, humanGuess, aiIntercept, aiGuess, humanIntercept Code) {
	t.Helper()
	require.NoError(t, s.SubmitHumanClues(Clues{"a", "b", "c"}))
	require.NoError(t, s.SubmitHumanGuess(humanGuess))
	require.NoError(t, s.SubmitAIIntercept(aiIntercept, aiLog(RoleInterceptor)))
	require.NoError(t, s.ContinueHumanPhase())
	require.NoError(t, s.SubmitAIClues(Clues{"x", "y", "z"}, aiLog(RoleEncryptor)))
	require.NoError(t, s.SubmitAIGuess(aiGuess, aiLog(RoleGuesser)))
	require.NoError(t, s.SubmitHumanIntercept(humanIntercept))
	require.NoError(t, s.ContinueAIPhase())
}

var ignoreUnexported = cmpopts.IgnoreUnexported(Session{})

func TestNewSessionIsIdle(t *testing.T) {
	s := NewSession(0)
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Equal(t, 0, s.Round)
	assert.Equal(t, DefaultMaxRounds, s.MaxRounds)
	assert.Empty(t, s.History)
	assert.Nil(t, s.CurrentHumanCode)
}

func TestStartGame(t *testing.T) {
	s := startedSession(t)

	assert.Equal(t, PhaseHumanEncrypt, s.Phase)
	assert.Equal(t, 1, s.Round)
	assert.Equal(t, [4]string{"ocean", "car", "bird", "door"}, s.HumanTeam.Keywords)
	assert.Equal(t, [4]string{"piano", "moon", "bread", "river"}, s.AITeam.Keywords)
	require.NotNil(t, s.CurrentHumanCode)
	require.NotNil(t, s.CurrentAICode)
	assert.Equal(t, humanCode, *s.CurrentHumanCode)
	assert.Equal(t, aiCode, *s.CurrentAICode)
	assert.Zero(t, s.HumanTeam.InterceptCount)
	assert.Zero(t, s.AITeam.MiscommunicationCount)
	assert.Equal(t, WinnerNone, s.Winner)
}

func TestStartGameKeywordFailures(t *testing.T) {
	s := NewSession(8)
	err := s.Start(staticWords{"a", "b", "c"})
	require.ErrorIs(t, err, ErrNotEnoughKeywords)
	assert.Equal(t, PhaseIdle, s.Phase)

	err = s.Start(staticWords{"a", "b", "c", "d", "e", "f", "g", "a"})
	require.ErrorIs(t, err, ErrNotEnoughKeywords)

	err = s.Start(failingWords{})
	require.Error(t, err)
	assert.Equal(t, PhaseIdle, s.Phase)
}

func TestStartOnlyFromIdle(t *testing.T) {
	s := startedSession(t)
	require.ErrorIs(t, s.Start(eightWords), ErrWrongPhase)
}

func TestFullRoundScenario(t *testing.T) {
	s := startedSession(t)

	require.NoError(t, s.SubmitHumanClues(Clues{"a", "b", "c"}))
	assert.Equal(t, PhaseHumanGuess, s.Phase)

	require.NoError(t, s.SubmitHumanGuess(humanCode))
	assert.Equal(t, 0, s.HumanTeam.MiscommunicationCount)
	assert.Equal(t, PhaseAIIntercept, s.Phase)

	// model call failed: fallback guess that does not match
	fallback := Code{3, 2, 1}
	require.NoError(t, s.SubmitAIIntercept(fallback, ReasoningLog{Role: RoleInterceptor, Output: "error: timeout"}))
	assert.Equal(t, 0, s.AITeam.InterceptCount)
	assert.Equal(t, PhaseHumanPhaseResult, s.Phase)

	require.NoError(t, s.ContinueHumanPhase())
	assert.True(t, s.AIThinking)
	assert.Equal(t, PhaseAIEncrypt, s.Phase)

	require.NoError(t, s.SubmitAIClues(Clues{"x", "y", "z"}, aiLog(RoleEncryptor)))
	assert.Equal(t, PhaseAIGuess, s.Phase)

	require.NoError(t, s.SubmitAIGuess(aiCode, aiLog(RoleGuesser)))
	assert.Equal(t, 0, s.AITeam.MiscommunicationCount)
	assert.False(t, s.AIThinking)
	assert.Equal(t, PhaseHumanIntercept, s.Phase)

	require.NoError(t, s.SubmitHumanIntercept(aiCode))
	assert.Equal(t, 1, s.HumanTeam.InterceptCount)
	assert.Equal(t, PhaseAIPhaseResult, s.Phase)

	require.NoError(t, s.ContinueAIPhase())
	assert.Equal(t, PhaseRoundEnd, s.Phase)
	assert.Empty(t, s.AILogs)

	require.Len(t, s.History, 1)
	r := s.History[0]
	assert.Equal(t, 1, r.Round)
	assert.Equal(t, humanCode, r.HumanPhase.Code)
	assert.Equal(t, Clues{"a", "b", "c"}, r.HumanPhase.Clues)
	assert.True(t, *r.HumanPhase.TeamGuessCorrect)
	assert.False(t, *r.HumanPhase.InterceptCorrect)
	assert.Equal(t, fallback, *r.HumanPhase.InterceptGuess)
	assert.Equal(t, aiCode, r.AIPhase.Code)
	assert.Equal(t, Clues{"x", "y", "z"}, r.AIPhase.Clues)
	assert.True(t, *r.AIPhase.TeamGuessCorrect)
	assert.True(t, *r.AIPhase.InterceptCorrect)
	require.Len(t, r.AILogs, 3)
	assert.Equal(t, []Role{RoleInterceptor, RoleEncryptor, RoleGuesser},
		[]Role{r.AILogs[0].Role, r.AILogs[1].Role, r.AILogs[2].Role})
}

func TestMiscommunicationAndInterceptScoring(t *testing.T) {
	s := startedSession(t)
	wrong := Code{3, 2, 1}
	playRound(t, s, wrong, humanCode, Code{2, 3, 4}, wrong)

	assert.Equal(t, 1, s.HumanTeam.MiscommunicationCount)
	assert.Equal(t, 1, s.AITeam.InterceptCount)
	assert.Equal(t, 1, s.AITeam.MiscommunicationCount)
	assert.Equal(t, 0, s.HumanTeam.InterceptCount)

	r := s.History[0]
	assert.False(t, *r.HumanPhase.TeamGuessCorrect)
	assert.True(t, *r.HumanPhase.InterceptCorrect)
	assert.False(t, *r.AIPhase.TeamGuessCorrect)
	assert.False(t, *r.AIPhase.InterceptCorrect)
}

func TestValidationLeavesStateUnchanged(t *testing.T) {
	s := startedSession(t)
	before := s.Snapshot()

	err := s.SubmitHumanClues(Clues{"a", "  ", "c"})
	require.ErrorIs(t, err, ErrBlankClue)
	assert.Empty(t, cmp.Diff(before, s.Snapshot(), ignoreUnexported))

	require.NoError(t, s.SubmitHumanClues(Clues{" a ", "b", "c"}))
	assert.Equal(t, Clues{"a", "b", "c"}, *s.CurrentHumanClues)

	before = s.Snapshot()
	require.ErrorIs(t, s.SubmitHumanGuess(Code{1, 1, 2}), ErrInvalidCode)
	require.ErrorIs(t, s.SubmitHumanGuess(Code{}), ErrInvalidCode)
	assert.Empty(t, cmp.Diff(before, s.Snapshot(), ignoreUnexported))
}

func TestOutOfPhaseSubmissionIsRejected(t *testing.T) {
	s := startedSession(t)
	require.NoError(t, s.SubmitHumanClues(Clues{"a", "b", "c"}))
	require.NoError(t, s.SubmitHumanGuess(humanCode))
	require.NoError(t, s.SubmitAIIntercept(Code{2, 1, 3}, aiLog(RoleInterceptor)))
	require.NoError(t, s.ContinueHumanPhase())
	require.Equal(t, PhaseAIEncrypt, s.Phase)

	before := s.Snapshot()
	actions := map[string]func() error{
		"human clues":     func() error { return s.SubmitHumanClues(Clues{"a", "b", "c"}) },
		"human guess":     func() error { return s.SubmitHumanGuess(humanCode) },
		"ai intercept":    func() error { return s.SubmitAIIntercept(humanCode, aiLog(RoleInterceptor)) },
		"continue human":  s.ContinueHumanPhase,
		"ai guess":        func() error { return s.SubmitAIGuess(aiCode, aiLog(RoleGuesser)) },
		"human intercept": func() error { return s.SubmitHumanIntercept(aiCode) },
		"continue ai":     s.ContinueAIPhase,
		"advance":         s.AdvanceRound,
		"start":           func() error { return s.Start(eightWords) },
	}
	for name, act := range actions {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, act(), ErrWrongPhase)
			assert.Empty(t, cmp.Diff(before, s.Snapshot(), ignoreUnexported))
		})
	}
}

func TestAdvanceRoundClearsSlots(t *testing.T) {
	next := Code{2, 4, 1}
	s := NewSession(8, WithCodeSource(codeSeq(humanCode, aiCode, next, next)))
	require.NoError(t, s.Start(eightWords))
	playRound(t, s, humanCode, Code{3, 2, 1}, aiCode, Code{1, 2, 3})

	require.NoError(t, s.AdvanceRound())
	assert.Equal(t, PhaseHumanEncrypt, s.Phase)
	assert.Equal(t, 2, s.Round)
	assert.Nil(t, s.CurrentHumanClues)
	assert.Nil(t, s.CurrentAIClues)
	assert.Nil(t, s.CurrentHumanGuess)
	assert.Nil(t, s.CurrentAITeamGuess)
	assert.Nil(t, s.CurrentAIInterceptGuess)
	assert.Nil(t, s.CurrentHumanInterceptGuess)
	assert.False(t, s.AIThinking)
	assert.Equal(t, next, *s.CurrentHumanCode)
	assert.Equal(t, next, *s.CurrentAICode)
	assert.Len(t, s.History, 1)
}

func TestGameEndsOnTwoInterceptions(t *testing.T) {
	s := startedSession(t)
	for i := 0; i < 2; i++ {
		// human intercepts the AI code both rounds
		playRound(t, s, humanCode, Code{3, 2, 1}, aiCode, aiCode)
		require.NoError(t, s.AdvanceRound())
	}
	assert.Equal(t, PhaseGameOver, s.Phase)
	assert.Equal(t, WinnerHuman, s.Winner)
	assert.Equal(t, 3, s.Round)
	assert.NotEmpty(t, s.EndReason)
	assert.Len(t, s.History, 2)
}

func TestMiscommunicationBeatsInterception(t *testing.T) {
	s := startedSession(t)
	for i := 0; i < 2; i++ {
		// human misreads its own code but also intercepts every time
		playRound(t, s, Code{3, 2, 1}, Code{3, 2, 1}, aiCode, aiCode)
		require.NoError(t, s.AdvanceRound())
	}
	assert.Equal(t, PhaseGameOver, s.Phase)
	assert.Equal(t, WinnerAI, s.Winner)
}

func TestGameEndsAfterMaxRounds(t *testing.T) {
	s := NewSession(2, WithCodeSource(codeSeq(humanCode, aiCode)))
	require.NoError(t, s.Start(eightWords))

	playRound(t, s, humanCode, Code{3, 2, 1}, aiCode, aiCode)
	require.NoError(t, s.AdvanceRound())
	require.Equal(t, PhaseHumanEncrypt, s.Phase)

	playRound(t, s, humanCode, Code{3, 2, 1}, aiCode, Code{3, 2, 1})
	require.NoError(t, s.AdvanceRound())
	assert.Equal(t, PhaseGameOver, s.Phase)
	assert.Equal(t, WinnerHuman, s.Winner)
	assert.Equal(t, 3, s.Round)
}

func TestGameOverIsTerminal(t *testing.T) {
	s := NewSession(1, WithCodeSource(codeSeq(humanCode, aiCode)))
	require.NoError(t, s.Start(eightWords))
	playRound(t, s, humanCode, Code{3, 2, 1}, aiCode, Code{3, 2, 1})
	require.NoError(t, s.AdvanceRound())
	require.Equal(t, PhaseGameOver, s.Phase)
	assert.Equal(t, WinnerDraw, s.Winner)

	before := s.Snapshot()
	require.ErrorIs(t, s.SubmitHumanClues(Clues{"a", "b", "c"}), ErrWrongPhase)
	require.ErrorIs(t, s.AdvanceRound(), ErrWrongPhase)
	require.ErrorIs(t, s.Start(eightWords), ErrWrongPhase)
	assert.Empty(t, cmp.Diff(before, s.Snapshot(), ignoreUnexported))
}

func TestResetFromAnyPhase(t *testing.T) {
	drive := []func(s *Session) error{
		func(s *Session) error { return s.SubmitHumanClues(Clues{"a", "b", "c"}) },
		func(s *Session) error { return s.SubmitHumanGuess(humanCode) },
		func(s *Session) error { return s.SubmitAIIntercept(Code{3, 2, 1}, aiLog(RoleInterceptor)) },
		func(s *Session) error { return s.ContinueHumanPhase() },
		func(s *Session) error { return s.SubmitAIClues(Clues{"x", "y", "z"}, aiLog(RoleEncryptor)) },
		func(s *Session) error { return s.SubmitAIGuess(aiCode, aiLog(RoleGuesser)) },
		func(s *Session) error { return s.SubmitHumanIntercept(aiCode) },
		func(s *Session) error { return s.ContinueAIPhase() },
	}
	for steps := 0; steps <= len(drive); steps++ {
		s := startedSession(t)
		for _, step := range drive[:steps] {
			require.NoError(t, step(s))
		}
		s.Reset()
		assertPristine(t, s, 8)
	}

	over := NewSession(1, WithCodeSource(codeSeq(humanCode, aiCode)))
	require.NoError(t, over.Start(eightWords))
	playRound(t, over, humanCode, Code{3, 2, 1}, aiCode, Code{3, 2, 1})
	require.NoError(t, over.AdvanceRound())
	require.Equal(t, PhaseGameOver, over.Phase)
	over.Reset()
	assertPristine(t, over, 1)

	// a reset session can be started again
	require.NoError(t, over.Start(eightWords))
	assert.Equal(t, PhaseHumanEncrypt, over.Phase)
}

func assertPristine(t *testing.T, s *Session, maxRounds int) {
	t.Helper()
	want := NewSession(maxRounds)
	assert.Empty(t, cmp.Diff(want.Snapshot(), s.Snapshot(), ignoreUnexported))
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Equal(t, 0, s.Round)
	assert.Empty(t, s.History)
	assert.Equal(t, WinnerNone, s.Winner)
}

func TestSnapshotIsDeep(t *testing.T) {
	s := startedSession(t)
	playRound(t, s, humanCode, Code{3, 2, 1}, aiCode, aiCode)

	snap := s.Snapshot()
	snap.CurrentHumanCode[0] = 4
	*snap.History[0].HumanPhase.TeamGuessCorrect = false
	snap.History[0].AILogs[0].Output = "changed"

	assert.Equal(t, humanCode, *s.CurrentHumanCode)
	assert.True(t, *s.History[0].HumanPhase.TeamGuessCorrect)
	assert.Equal(t, "out", s.History[0].AILogs[0].Output)
}

func TestPhaseModelDriven(t *testing.T) {
	assert.True(t, PhaseAIIntercept.ModelDriven())
	assert.True(t, PhaseAIEncrypt.ModelDriven())
	assert.True(t, PhaseAIGuess.ModelDriven())
	assert.False(t, PhaseHumanIntercept.ModelDriven())
	assert.False(t, PhaseRoundEnd.ModelDriven())
}

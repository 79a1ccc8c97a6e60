// internal/game/history.go
//
// History recorder and clue-history views.
// Responsibilities:
//   - Assemble the immutable RoundData for a finished round.
//   - Render a team's public clue table (what an interceptor sees).
//   - Group a team's past clues by keyword number (what its own players see).

package game

import (
	"fmt"
	"strings"
)

// noHistory is rendered when no round has been completed yet.
const noHistory = "no history yet"

// newPhaseResult evaluates the stored guesses against code. Correctness
// fields stay nil when the corresponding guess is nil.
func newPhaseResult(code Code, clues Clues, teamGuess, interceptGuess *Code) PhaseResult {
	pr := PhaseResult{
		Code:           code,
		Clues:          clues,
		TeamGuess:      cloneCode(teamGuess),
		InterceptGuess: cloneCode(interceptGuess),
	}
	if teamGuess != nil {
		ok := CheckGuess(*teamGuess, code)
		pr.TeamGuessCorrect = &ok
	}
	if interceptGuess != nil {
		ok := CheckGuess(*interceptGuess, code)
		pr.InterceptCorrect = &ok
	}
	return pr
}

// recordRound appends one RoundData. logs is copied so later buffer reuse
// cannot alter the record.
func recordRound(h History, round int, human, ai PhaseResult, logs []ReasoningLog) History {
	rd := RoundData{
		Round:      round,
		HumanPhase: human,
		AIPhase:    ai,
		AILogs:     append([]ReasoningLog{}, logs...),
	}
	return append(h, rd)
}

// phaseOf selects the given team's half of a round.
func (r RoundData) phaseOf(t Team) PhaseResult {
	if t == TeamHuman {
		return r.HumanPhase
	}
	return r.AIPhase
}

// ClueTable renders every past round of team t as "R<n> | c1 | c2 | c3 | code".
// Codes are public once a round is over, so this is the interceptor's view.
func (h History) ClueTable(t Team) string {
	if len(h) == 0 {
		return noHistory
	}
	lines := []string{"round | clue 1 | clue 2 | clue 3 | code"}
	for _, r := range h {
		p := r.phaseOf(t)
		lines = append(lines, fmt.Sprintf("R%d | %s | %s | %s | %s",
			r.Round, p.Clues[0], p.Clues[1], p.Clues[2], FormatCode(p.Code)))
	}
	return strings.Join(lines, "\n")
}

// KeywordClues groups team t's past clues under the keyword they pointed at.
func (h History) KeywordClues(t Team, keywords [4]string) string {
	if len(h) == 0 {
		return noHistory
	}
	var byNum [5][]string
	for _, r := range h {
		p := r.phaseOf(t)
		for i, n := range p.Code {
			if n >= 1 && n <= 4 {
				byNum[n] = append(byNum[n], fmt.Sprintf("R%d:%s", r.Round, p.Clues[i]))
			}
		}
	}
	lines := make([]string, 0, 4)
	for n := 1; n <= 4; n++ {
		list := "(none yet)"
		if len(byNum[n]) > 0 {
			list = strings.Join(byNum[n], ", ")
		}
		lines = append(lines, fmt.Sprintf("#%d %q <- %s", n, keywords[n-1], list))
	}
	return strings.Join(lines, "\n")
}

func cloneCode(c *Code) *Code {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}

func cloneClues(c *Clues) *Clues {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func clonePhaseResult(p PhaseResult) PhaseResult {
	p.TeamGuess = cloneCode(p.TeamGuess)
	p.TeamGuessCorrect = cloneBool(p.TeamGuessCorrect)
	p.InterceptGuess = cloneCode(p.InterceptGuess)
	p.InterceptCorrect = cloneBool(p.InterceptCorrect)
	return p
}

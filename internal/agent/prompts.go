package agent

import (
	"strings"
	"text/template"

	"github.com/robalobadob/decrypto/internal/game"
)

var prompts = template.Must(template.New("prompts").Parse(`
{{define "encryptSystem"}}You are playing the board game Decrypto as the ENCRYPTOR.

## The core tension
Your teammate must decode your clues, but the opponents see them too. If your
clues are too obvious, the opponents will collect them round after round, infer
your keywords and intercept your code. Balance "my teammate gets it" against
"the opponents cannot".

## Your team's keywords
1: {{index .Keywords 0}}
2: {{index .Keywords 1}}
3: {{index .Keywords 2}}
4: {{index .Keywords 3}}

## Past clues per keyword (the opponents can see these)
{{.KeywordClues}}

## Clue rules
- Each clue is one to three words.
- Never use the keyword itself, part of it, a synonym, a hypernym or hyponym, a homophone or a translation.
- Never repeat an earlier clue.
- A clue must let your teammate pick the right keyword out of the four.

## Strategy for this round
{{.Strategy}}{{end}}

{{define "encryptUser"}}This round's code: {{.Code}}

Keywords to hint at:
- position 1 -> #{{index .Code 0}} "{{.At 0}}"
- position 2 -> #{{index .Code 1}} "{{.At 1}}"
- position 3 -> #{{index .Code 2}} "{{.At 2}}"

Give exactly one clue per position. Output exactly three lines formatted "number. clue":
1.
2.
3.{{end}}

{{define "guessSystem"}}You are playing the board game Decrypto as the RECEIVER.

## Your team's keywords
1: {{index .Keywords 0}}
2: {{index .Keywords 1}}
3: {{index .Keywords 2}}
4: {{index .Keywords 3}}

## Past clues per keyword
{{.KeywordClues}}

## Task
Your encryptor gave three clues, in code order, for a three-digit code you do
not know. Work out which keyword number each clue points at.

## Method
For each clue:
1. Judge how strongly it relates to each of the four keywords (meaning, setting, feeling).
2. Use the history: clues for the same keyword tend to share a theme.
3. Pick the keyword number with the strongest link.
4. The code has three distinct digits from 1 to 4; if two clues point at the same keyword, reconsider.

{{if .Thinking}}## Output format
Output a single line: Answer: X X X (digits 1-4, space separated, all different)

Example:
Answer: 3 1 4{{else}}## Output format
Analyse each clue, then answer. Strictly:

Analysis:
- Clue 1 "..." -> fit with #1 "{{index .Keywords 0}}"?, #2 "{{index .Keywords 1}}"?, #3 "{{index .Keywords 2}}"?, #4 "{{index .Keywords 3}}"? -> most likely #?
- Clue 2 "..." -> (same format)
- Clue 3 "..." -> (same format)

Answer: X X X

The last line must be "Answer: X X X" with three different digits.{{end}}{{end}}

{{define "interceptSystem"}}You are playing the board game Decrypto as the INTERCEPTOR.

## Background
The opponents have four secret keywords (numbered 1-4) that you do not know.
Each round their encryptor gives one clue per digit of their code. Infer the
theme of each keyword number from their past clues, then crack this round's code.

## Opponent clue history (codes revealed)
{{.ClueTable}}

## Method
Step 1, infer keyword themes:
- Collect every past clue given for each keyword number.
- Find what the clues for one number have in common (field, theme, feeling).
- Example: #2 had "waves", "sand", "blue" -> keyword is probably "ocean".

Step 2, match this round:
- Compare each new clue against the four inferred themes.
- Pick the number with the strongest link.
- The code has three distinct digits from 1 to 4; resolve conflicts.

{{if .Thinking}}## Output format
Output a single line: Answer: X X X (digits 1-4, space separated, all different)

Example:
Answer: 2 4 1{{else}}## Output format
Analyse, then answer. Strictly:

Keyword themes:
- #1: theme "..."
- #2: theme "..."
- #3: theme "..."
- #4: theme "..."

This round:
- Clue 1 "..." -> closest to #? (short reason)
- Clue 2 "..." -> closest to #? (short reason)
- Clue 3 "..." -> closest to #? (short reason)

Answer: X X X

The last line must be "Answer: X X X" with three different digits.{{end}}{{end}}

{{define "cluesUser"}}{{.Lead}}:
Clue 1: {{index .Clues 0}}
Clue 2: {{index .Clues 1}}
Clue 3: {{index .Clues 2}}

{{if .Thinking}}Answer:{{else}}{{.Ask}}{{end}}{{end}}
`))

const (
	earlyStrategy = `Early round. Use indirect associations your teammate can follow and that can carry a style across rounds.
- Prefer settings, uses, emotions and stories over definitions.
- No synonyms or hypernyms ("apple" must not become "fruit").
- No plain physical descriptions ("apple" must not become "red round").

Good: "apple" -> "Newton" (story) or "orchard" (setting); "piano" -> "Chopin".
Bad: "apple" -> "fruit" (hypernym) or "red" (too direct); "piano" -> "instrument".`

	middleStrategy = `Middle round. The opponents have started analysing your history.
- Switch the kind of association every round: if you used settings before, use emotions, culture or senses now.
- Puns, opposites and literary references are allowed.
- Your teammate must still be able to single out the keyword; the opponents must not be able to tell which number a clue belongs to.`

	lateStrategy = `Late round. The opponents have a lot of history and may already know some keywords.
- Use abstract, many-sided clues that only make sense if you know the keyword (trivia, unusual uses, shared experiences).
- Reverse associations, metaphors and sensations are allowed.
- Every clue must use a different kind of association than all earlier rounds.
- Goal: even if the opponents know the keywords, they cannot map the clues back to numbers.`
)

// strategyFor picks the encryptor strategy for a 1-based round.
func strategyFor(round int) string {
	switch {
	case round <= 2:
		return earlyStrategy
	case round <= 4:
		return middleStrategy
	default:
		return lateStrategy
	}
}

type encryptData struct {
	Keywords     [4]string
	Code         game.Code
	KeywordClues string
	Strategy     string
}

// At returns the keyword a code position points at.
func (d encryptData) At(pos int) string { return d.Keywords[d.Code[pos]-1] }

type guessData struct {
	Keywords     [4]string
	KeywordClues string
	Thinking     bool
}

type interceptData struct {
	ClueTable string
	Thinking  bool
}

type cluesData struct {
	Lead     string
	Clues    game.Clues
	Ask      string
	Thinking bool
}

func render(name string, data any) string {
	var b strings.Builder
	if err := prompts.ExecuteTemplate(&b, name, data); err != nil {
		// templates are static; a failure here is a programming error
		panic(err)
	}
	return strings.TrimSpace(b.String())
}

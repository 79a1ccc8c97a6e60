// internal/game/rules.go
//
// Termination rule. Failure conditions (miscommunications) are checked
// before victory conditions (interceptions), then the round limit.

package game

import "fmt"

// EndResult is the verdict of CheckGameEnd. Winner and Reason are set only
// when Ended is true.
type EndResult struct {
	Ended  bool
	Winner Winner
	Reason string
}

// CheckGameEnd decides whether the game is over. round is the already
// incremented round number; the first matching rule wins.
func CheckGameEnd(human, ai TeamState, round, maxRounds int) EndResult {
	switch {
	case human.MiscommunicationCount >= 2 && ai.MiscommunicationCount >= 2:
		return ended(WinnerDraw, "both teams miscommunicated twice")
	case human.MiscommunicationCount >= 2:
		return ended(WinnerAI, "human team miscommunicated twice")
	case ai.MiscommunicationCount >= 2:
		return ended(WinnerHuman, "AI team miscommunicated twice")

	case human.InterceptCount >= 2 && ai.InterceptCount >= 2:
		return ended(WinnerDraw, "both teams intercepted twice")
	case human.InterceptCount >= 2:
		return ended(WinnerHuman, "human team intercepted twice")
	case ai.InterceptCount >= 2:
		return ended(WinnerAI, "AI team intercepted twice")
	}

	if round > maxRounds {
		switch {
		case human.InterceptCount > ai.InterceptCount:
			return ended(WinnerHuman, fmt.Sprintf("%d rounds played, human team intercepted more", maxRounds))
		case ai.InterceptCount > human.InterceptCount:
			return ended(WinnerAI, fmt.Sprintf("%d rounds played, AI team intercepted more", maxRounds))
		default:
			return ended(WinnerDraw, fmt.Sprintf("%d rounds played, interceptions tied", maxRounds))
		}
	}
	return EndResult{}
}

func ended(w Winner, reason string) EndResult {
	return EndResult{Ended: true, Winner: w, Reason: reason}
}

package interview

// Advance is the deterministic difficulty policy. Difficulty ratchets on
// every second consecutive success or failure rather than on every single
// one, damping oscillation from one-off answers. Outcomes that are not
// scored leave the state untouched.
func Advance(score, difficulty int, outcome Outcome) (int, int) {
	switch outcome {
	case OutcomeCorrect:
		score++
		if score%2 == 0 {
			difficulty = min(MaxDifficulty, difficulty+1)
		}
	case OutcomeIncorrect, OutcomePartial:
		score = max(0, score-1)
		if score%2 == 1 && score > 0 {
			difficulty = max(MinDifficulty, difficulty-1)
		}
	}

	return score, difficulty
}

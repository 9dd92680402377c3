package wordgame

import (
	game_constants "Wordlink/constants/game"
	"fmt"
	"strings"
	"time"
)

// LetterResult is the evaluation of a single guessed letter.
type LetterResult struct {
	Letter string `json:"letter"`
	Status string `json:"status"` // correct | present | absent
}

// Attempt is one submitted guess together with its per-letter evaluation.
// Attempts are immutable once appended to a player's record.
type Attempt struct {
	Word          string         `json:"word"`
	Result        []LetterResult `json:"result"`
	AttemptNumber int            `json:"attemptNumber"`
	Timestamp     time.Time      `json:"timestamp"`
}

// EvaluateGuess scores a guess against the target word using the two-pass,
// index-consuming algorithm. Both words must be uppercase and of equal
// length; the consuming second pass is what keeps repeated letters from
// being double-counted (guess "ALLOW" vs target "BELOW" yields one present
// L and one absent L, never two present).
func EvaluateGuess(guess, target string) ([]LetterResult, error) {
	if len(guess) != len(target) {
		return nil, fmt.Errorf("guess length %d does not match target length %d", len(guess), len(target))
	}

	result := make([]LetterResult, len(guess))
	usedTarget := make([]bool, len(target))
	usedGuess := make([]bool, len(guess))

	// First pass - mark correct positions
	for i := 0; i < len(guess); i++ {
		if guess[i] == target[i] {
			result[i] = LetterResult{Letter: string(guess[i]), Status: game_constants.LetterCorrect}
			usedTarget[i] = true
			usedGuess[i] = true
		}
	}

	// Second pass - mark present letters, consuming target indices
	for i := 0; i < len(guess); i++ {
		if usedGuess[i] {
			continue
		}

		found := false
		for j := 0; j < len(target); j++ {
			if !usedTarget[j] && guess[i] == target[j] {
				result[i] = LetterResult{Letter: string(guess[i]), Status: game_constants.LetterPresent}
				usedTarget[j] = true
				found = true
				break
			}
		}

		if !found {
			result[i] = LetterResult{Letter: string(guess[i]), Status: game_constants.LetterAbsent}
		}
	}

	return result, nil
}

// WinScore returns the score awarded for winning on the given attempt.
// Fewer attempts yields a strictly higher score.
func WinScore(maxAttempts, attemptNumber int) int {
	return (maxAttempts - attemptNumber + 1) * game_constants.WinScoreMultiplier
}

// NormalizeWord upper-cases and trims a submitted word.
func NormalizeWord(word string) string {
	return strings.ToUpper(strings.TrimSpace(word))
}

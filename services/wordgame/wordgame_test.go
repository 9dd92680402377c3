package wordgame

import (
	game_constants "Wordlink/constants/game"
	"testing"

	"github.com/stretchr/testify/assert"
)

func statuses(results []LetterResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Status
	}
	return out
}

func TestEvaluateGuessAllCorrect(t *testing.T) {
	result, err := EvaluateGuess("CRANE", "CRANE")
	assert.NoError(t, err)
	assert.Equal(t, []string{"correct", "correct", "correct", "correct", "correct"}, statuses(result))
}

func TestEvaluateGuessScenarioCrate(t *testing.T) {
	// Target CRANE, guess CRATE: T is absent, everything else correct
	result, err := EvaluateGuess("CRATE", "CRANE")
	assert.NoError(t, err)
	assert.Equal(t, []string{"correct", "correct", "correct", "absent", "correct"}, statuses(result))
}

func TestEvaluateGuessRepeatedLetters(t *testing.T) {
	// Guess ALLOW vs target BELOW: only one L in the target, so exactly one
	// of the two guessed Ls may be marked present
	result, err := EvaluateGuess("ALLOW", "BELOW")
	assert.NoError(t, err)

	presentL, absentL := 0, 0
	for i, r := range result {
		if r.Letter != "L" {
			continue
		}
		switch r.Status {
		case game_constants.LetterPresent:
			presentL++
		case game_constants.LetterAbsent:
			absentL++
		case game_constants.LetterCorrect:
			t.Fatalf("unexpected correct L at index %d", i)
		}
	}
	assert.Equal(t, 1, presentL)
	assert.Equal(t, 1, absentL)

	// O and W are positionally equal, A is absent
	assert.Equal(t, game_constants.LetterAbsent, result[0].Status)
	assert.Equal(t, game_constants.LetterCorrect, result[3].Status)
	assert.Equal(t, game_constants.LetterCorrect, result[4].Status)
}

func TestEvaluateGuessConsumesCorrectBeforePresent(t *testing.T) {
	// Second E in the guess must not steal the E already consumed by the
	// positional match
	result, err := EvaluateGuess("EERIE", "CRANE")
	assert.NoError(t, err)
	// Target CRANE has one E, at index 4. Guess EERIE: the E at index 4 is
	// correct, so the Es at 0, 1 and the I, R elsewhere resolve without it
	assert.Equal(t, game_constants.LetterCorrect, result[4].Status)
	assert.Equal(t, game_constants.LetterAbsent, result[0].Status)
	assert.Equal(t, game_constants.LetterAbsent, result[1].Status)
}

func TestEvaluateGuessNoRepeats(t *testing.T) {
	// With no repeated letters, evaluation marks exactly the positionally
	// equal letters correct and all letters present elsewhere present
	result, err := EvaluateGuess("STONE", "NOTES")
	assert.NoError(t, err)
	for i, r := range result {
		if "STONE"[i] == "NOTES"[i] {
			assert.Equal(t, game_constants.LetterCorrect, r.Status, "index %d", i)
		} else {
			assert.Equal(t, game_constants.LetterPresent, r.Status, "index %d", i)
		}
	}
}

func TestEvaluateGuessLengthMismatch(t *testing.T) {
	_, err := EvaluateGuess("CAT", "CRANE")
	assert.Error(t, err)
}

func TestWinScore(t *testing.T) {
	// First-attempt win on a six-attempt game scores 60
	assert.Equal(t, 60, WinScore(6, 1))
	assert.Equal(t, 10, WinScore(6, 6))

	// Fewer attempts yields a strictly higher score
	for attempt := 2; attempt <= 6; attempt++ {
		assert.Greater(t, WinScore(6, attempt-1), WinScore(6, attempt))
	}
}

func TestNormalizeWord(t *testing.T) {
	assert.Equal(t, "CRANE", NormalizeWord("  crane "))
	assert.Equal(t, "", NormalizeWord("   "))
}

func TestRandomWordShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		word := RandomWord()
		assert.Len(t, word, 5)
		assert.Equal(t, NormalizeWord(word), word)
	}
}

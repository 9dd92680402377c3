package game_constants

const DefaultWordLength = 5
const DefaultMaxAttempts = 6
const DefaultTimeLimit = 300 // seconds, stored but not enforced

// Score multiplier applied to (maxAttempts - attemptNumber + 1) on a win
const WinScoreMultiplier = 10

// Letter evaluation statuses
const (
	LetterCorrect = "correct"
	LetterPresent = "present"
	LetterAbsent  = "absent"
)

// Game event names broadcast to game rooms
const (
	EventGameCreated = "game_created"
	EventGameStarted = "game_started"
	EventGuessMade   = "guess_made"
	EventPlayerWon   = "player_won"
	EventGameEnded   = "game_ended"
)

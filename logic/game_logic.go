package logic

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"wordguess/models"
	"wordguess/words"
)

const unrevealed = '_'

// Round is the state of one playthrough. It is not safe for concurrent use.
type Round struct {
	difficulty models.Difficulty
	category   string
	word       string
	board      []rune
	guessed    map[rune]bool
	wrong      int
	maxWrong   int
	frame      int
}

// Start draws a word for the difficulty and opens a fresh round on it.
func Start(bank words.Bank, d models.Difficulty, rng words.RandomSource) (*Round, error) {
	category, word, err := bank.Pick(d, rng)
	if err != nil {
		return nil, err
	}
	r := NewRound(category, word)
	r.difficulty = d
	return r, nil
}

// NewRound opens a round on a known word.
func NewRound(category, word string) *Round {
	word = strings.ToLower(word)
	board := make([]rune, 0, len(word))
	for range word {
		board = append(board, unrevealed)
	}
	return &Round{
		category: category,
		word:     word,
		board:    board,
		guessed:  make(map[rune]bool),
		maxWrong: models.MaxWrong,
		frame:    InitialFrame(len(board)),
	}
}

// Guess applies one letter and classifies it. Malformed input is Rejected and
// changes nothing. Guesses after the round has ended are still classified,
// but the wrong counter never passes maxWrong.
func (r *Round) Guess(input string) models.GuessOutcome {
	letter, ok := normalize(input)
	if !ok {
		return r.outcome(models.Rejected, nil)
	}
	if r.guessed[letter] || r.onBoard(letter) {
		return r.outcome(models.Repeat, nil)
	}

	r.guessed[letter] = true

	positions := []int{}
	for i, c := range []rune(r.word) {
		if c == letter {
			r.board[i] = letter
			positions = append(positions, i)
		}
	}
	if len(positions) > 0 {
		r.frame = NextFrame(r.frame)
		return r.outcome(models.Correct, positions)
	}

	if r.wrong < r.maxWrong {
		r.wrong++
	}
	return r.outcome(models.Wrong, nil)
}

func normalize(input string) (rune, bool) {
	runes := []rune(strings.ToLower(input))
	if len(runes) != 1 || !unicode.IsLetter(runes[0]) {
		return 0, false
	}
	return runes[0], true
}

func (r *Round) onBoard(letter rune) bool {
	for _, c := range r.board {
		if c == letter {
			return true
		}
	}
	return false
}

func (r *Round) outcome(status models.GuessStatus, positions []int) models.GuessOutcome {
	if positions == nil {
		positions = []int{}
	}
	return models.GuessOutcome{
		Status:    status,
		Positions: positions,
		Complete:  r.Complete(),
		GameOver:  r.GameOver(),
	}
}

// Complete reports whether every position of the board is revealed.
func (r *Round) Complete() bool {
	return !r.onBoard(unrevealed)
}

// GameOver reports whether the wrong guesses have reached the limit.
func (r *Round) GameOver() bool {
	return r.wrong >= r.maxWrong
}

// Status is Won once the board is complete, Lost once the wrong guesses run
// out, InProgress otherwise. Winning is checked first.
func (r *Round) Status() models.RoundStatus {
	switch {
	case r.Complete():
		return models.Won
	case r.GameOver():
		return models.Lost
	default:
		return models.InProgress
	}
}

func (r *Round) Difficulty() models.Difficulty { return r.difficulty }
func (r *Round) Category() string              { return r.category }
func (r *Round) Word() string                  { return r.word }
func (r *Round) WrongCount() int               { return r.wrong }
func (r *Round) MaxWrong() int                 { return r.maxWrong }
func (r *Round) Frame() int                    { return r.frame }

// Board returns a copy of the masked word.
func (r *Round) Board() []rune {
	return append([]rune(nil), r.board...)
}

// Guessed returns the guessed letters in alphabetical order.
func (r *Round) Guessed() []string {
	letters := make([]string, 0, len(r.guessed))
	for l := range r.guessed {
		letters = append(letters, string(l))
	}
	sort.Strings(letters)
	return letters
}

// HintText names the category and the first letter of the word.
func (r *Round) HintText() string {
	first := ""
	if r.word != "" {
		first = strings.ToUpper(r.word[:1])
	}
	return fmt.Sprintf("Hint- Category: %s\nFirst letter: %s", capitalize(r.category), first)
}

// BoardText renders the board positions separated by single spaces.
func (r *Round) BoardText() string {
	cells := make([]string, len(r.board))
	for i, c := range r.board {
		cells[i] = string(c)
	}
	return strings.Join(cells, " ")
}

// GuessesText renders the guessed letters sorted, e.g. "Guesses: a, c, t".
func (r *Round) GuessesText() string {
	if len(r.guessed) == 0 {
		return "Guesses:"
	}
	return "Guesses: " + strings.Join(r.Guessed(), ", ")
}

// LivesText renders the limit followed by one "x " mark per wrong guess.
func (r *Round) LivesText() string {
	return fmt.Sprintf("Lives(%d): ", r.maxWrong) + strings.Repeat("x ", r.wrong)
}

// View snapshots the round for presentation. The word is only disclosed once
// the round has ended.
func (r *Round) View() models.RoundView {
	v := models.RoundView{
		Difficulty: r.difficulty,
		Category:   r.category,
		Hint:       r.HintText(),
		Board:      r.BoardText(),
		Guessed:    r.Guessed(),
		Guesses:    r.GuessesText(),
		Lives:      r.LivesText(),
		WrongCount: r.wrong,
		MaxWrong:   r.maxWrong,
		Status:     r.Status(),
		Frame:      r.frame,
	}
	if v.Status.Finished() {
		v.Word = r.word
	}
	return v
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

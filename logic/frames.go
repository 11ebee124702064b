package logic

import (
	"fmt"

	"wordguess/models"
)

// FrameCount is the length of the hangman picture sequence (img0..img51).
const FrameCount = 52

var initialFrameByLen = map[int]int{
	3: 3,
	4: 7,
	5: 12,
	6: 18,
	7: 25,
	8: 33,
	9: 43,
}

// InitialFrame is the first picture shown for a word of the given length.
func InitialFrame(wordLen int) int {
	return initialFrameByLen[wordLen]
}

// NextFrame advances the picture by one, stopping on the last frame.
func NextFrame(frame int) int {
	if frame < FrameCount-1 {
		return frame + 1
	}
	return frame
}

// FrameName is the image file for a frame.
func FrameName(frame int) string {
	return fmt.Sprintf("img%d.png", frame)
}

// Cue is a sound to play, named by its file under static/sounds/.
type Cue string

const (
	CueCorrect  Cue = "correct_guess.wav"
	CueWrong    Cue = "wrong_guess.wav"
	CueWin      Cue = "win_sound.mp3"
	CueGameOver Cue = "game_over.wav"
)

// Cues lists the sounds a presentation layer plays for an outcome, in order.
func Cues(o models.GuessOutcome) []Cue {
	cues := []Cue{}
	switch o.Status {
	case models.Correct:
		cues = append(cues, CueCorrect)
	case models.Wrong:
		cues = append(cues, CueWrong)
	}
	switch {
	case o.Complete:
		cues = append(cues, CueWin)
	case o.GameOver:
		cues = append(cues, CueGameOver)
	}
	return cues
}

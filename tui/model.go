package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wordguess/logic"
	"wordguess/models"
	"wordguess/words"
)

type screen int

const (
	selectScreen screen = iota
	playScreen
	endScreen
)

// Model is the terminal front end: pick a difficulty, guess letters from the
// keyboard, then choose whether to play again.
type Model struct {
	bank    words.Bank
	rng     words.RandomSource
	screen  screen
	cursor  int
	round   *logic.Round
	last    *models.GuessOutcome
	lastKey string
	err     error
}

func NewModel(bank words.Bank, rng words.RandomSource) Model {
	return Model{bank: bank, rng: rng}
}

func (model Model) Init() tea.Cmd {
	return nil
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMessage, ok := msg.(tea.KeyMsg)
	if !ok {
		return model, nil
	}
	if keyMessage.Type == tea.KeyCtrlC {
		return model, tea.Quit
	}

	switch model.screen {
	case selectScreen:
		return model.handleSelectKey(keyMessage)
	case playScreen:
		return model.handlePlayKey(keyMessage)
	default:
		return model.handleEndKey(keyMessage)
	}
}

func (model Model) handleSelectKey(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	tiers := models.Difficulties()
	switch keyMessage.String() {
	case "up", "k":
		if model.cursor > 0 {
			model.cursor--
		}
	case "down", "j":
		if model.cursor < len(tiers)-1 {
			model.cursor++
		}
	case "enter":
		round, err := logic.Start(model.bank, tiers[model.cursor], model.rng)
		if err != nil {
			model.err = err
			return model, nil
		}
		model.round = round
		model.last = nil
		model.lastKey = ""
		model.err = nil
		model.screen = playScreen
	case "q", "esc":
		return model, tea.Quit
	}
	return model, nil
}

func (model Model) handlePlayKey(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	if keyMessage.Type == tea.KeyEsc {
		// Abandon the round.
		model.round = nil
		model.screen = selectScreen
		return model, nil
	}
	if keyMessage.Type != tea.KeyRunes {
		return model, nil
	}

	key := string(keyMessage.Runes)
	outcome := model.round.Guess(key)
	model.last = &outcome
	model.lastKey = strings.ToLower(key)
	if outcome.Complete || outcome.GameOver {
		model.screen = endScreen
	}
	return model, nil
}

func (model Model) handleEndKey(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMessage.String() {
	case "y", "enter":
		model.round = nil
		model.last = nil
		model.screen = selectScreen
	case "n", "q", "esc":
		return model, tea.Quit
	}
	return model, nil
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Padding(1, 2).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	correctStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("118"))
	wrongStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	usedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
)

func (model Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Word Guessing Game"))
	b.WriteString("\n\n")

	switch model.screen {
	case selectScreen:
		b.WriteString("Select a difficulty:\n\n")
		for i, d := range models.Difficulties() {
			if i == model.cursor {
				b.WriteString(cursorStyle.Render("> " + d.String()))
			} else {
				b.WriteString("  " + d.String())
			}
			b.WriteString("\n")
		}
		if model.err != nil {
			b.WriteString("\n" + wrongStyle.Render(model.err.Error()) + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("↑/↓ choose • enter play • q quit"))

	case playScreen:
		model.renderRound(&b)
		b.WriteString("\n" + helpStyle.Render("type a letter to guess • esc abandon • ctrl+c quit"))

	case endScreen:
		model.renderRound(&b)
		if model.round.Status() == models.Won {
			b.WriteString("\n" + correctStyle.Render("Congrats! You won!"))
		} else {
			b.WriteString("\n" + wrongStyle.Render("GAME OVER! Answer: "+model.round.Word()))
		}
		b.WriteString("\n" + helpStyle.Render("Play again? (y/n)"))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (model Model) renderRound(b *strings.Builder) {
	r := model.round
	b.WriteString(r.HintText() + "\n\n")
	b.WriteString(boardStyle.Render(r.BoardText()) + "\n\n")
	b.WriteString(r.GuessesText() + "\n")
	b.WriteString(r.LivesText() + "\n\n")
	b.WriteString(model.renderAlphabet() + "\n")
	if model.last != nil {
		b.WriteString("\n" + describe(model.lastKey, *model.last) + "\n")
	}
}

func (model Model) renderAlphabet() string {
	used := make(map[string]bool)
	for _, l := range model.round.Guessed() {
		used[l] = true
	}
	word := model.round.Word()

	keys := make([]string, 0, 26)
	for c := 'a'; c <= 'z'; c++ {
		l := string(c)
		label := strings.ToUpper(l)
		switch {
		case !used[l]:
			keys = append(keys, label)
		case strings.Contains(word, l):
			keys = append(keys, correctStyle.Render(label))
		default:
			keys = append(keys, usedStyle.Render(label))
		}
	}
	// Six keys per row.
	var rows []string
	for i := 0; i < len(keys); i += 6 {
		end := i + 6
		if end > len(keys) {
			end = len(keys)
		}
		rows = append(rows, strings.Join(keys[i:end], " "))
	}
	return strings.Join(rows, "\n")
}

func describe(key string, o models.GuessOutcome) string {
	switch o.Status {
	case models.Correct:
		return correctStyle.Render(fmt.Sprintf("%q is in the word (positions %v)", key, o.Positions))
	case models.Wrong:
		return wrongStyle.Render(fmt.Sprintf("%q is not in the word", key))
	case models.Repeat:
		return helpStyle.Render(fmt.Sprintf("%q was already guessed", key))
	default:
		return helpStyle.Render("letters only, one at a time")
	}
}

package words

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"wordguess/models"
)

var ErrInvalidDifficulty = models.ErrInvalidDifficulty

// RandomSource is the randomness Pick consumes. *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// Bank maps a difficulty to its categories and their candidate words.
// Words may repeat inside a category; every entry is an equal draw.
type Bank map[models.Difficulty]map[string][]string

// Pick draws a category uniformly among the tier's categories, then a word
// uniformly among that category's entries.
func (b Bank) Pick(d models.Difficulty, rng RandomSource) (string, string, error) {
	pool, ok := b[d]
	if !ok || !d.Valid() {
		return "", "", fmt.Errorf("%w: %d", ErrInvalidDifficulty, int(d))
	}

	categories := b.Categories(d)
	if len(categories) == 0 {
		return "", "", fmt.Errorf("%w: %s has no words", ErrInvalidDifficulty, d)
	}

	category := categories[rng.Intn(len(categories))]
	list := pool[category]
	return category, list[rng.Intn(len(list))], nil
}

// Categories returns the non-empty categories of a tier sorted by name, so a
// seeded source always yields the same draw.
func (b Bank) Categories(d models.Difficulty) []string {
	categories := make([]string, 0, len(b[d]))
	for c, list := range b[d] {
		if len(list) > 0 {
			categories = append(categories, c)
		}
	}
	sort.Strings(categories)
	return categories
}

// Validate checks every tier is known, non-empty, and holds only words made
// of lowercase ASCII letters.
func (b Bank) Validate() error {
	for _, d := range models.Difficulties() {
		if len(b.Categories(d)) == 0 {
			return fmt.Errorf("word bank: %s has no words", d)
		}
	}
	for d, pool := range b {
		if !d.Valid() {
			return fmt.Errorf("word bank: %w: %d", ErrInvalidDifficulty, int(d))
		}
		for category, list := range pool {
			for _, w := range list {
				if !IsWord(w) {
					return fmt.Errorf("word bank: %s/%s: bad word %q", d, category, w)
				}
			}
		}
	}
	return nil
}

// IsWord reports whether w is a non-empty run of a-z.
func IsWord(w string) bool {
	if w == "" {
		return false
	}
	for _, c := range w {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

// Load reads a bank from a TOML file laid out as one table per difficulty:
//
//	[Beginner]
//	animals = ["tiger", "zebra"]
func Load(path string) (Bank, error) {
	var raw map[string]map[string][]string
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("word bank %s: %w", path, err)
	}
	return fromRaw(raw)
}

// Parse is Load for TOML already in memory.
func Parse(data string) (Bank, error) {
	var raw map[string]map[string][]string
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, fmt.Errorf("word bank: %w", err)
	}
	return fromRaw(raw)
}

func fromRaw(raw map[string]map[string][]string) (Bank, error) {
	bank := make(Bank, len(raw))
	for name, categories := range raw {
		d, err := models.ParseDifficulty(name)
		if err != nil {
			return nil, fmt.Errorf("word bank: %w: %q", err, name)
		}
		if _, dup := bank[d]; dup {
			return nil, fmt.Errorf("word bank: difficulty %s is listed more than once", d)
		}
		pool := make(map[string][]string, len(categories))
		for category, list := range categories {
			key := strings.ToLower(category)
			if _, dup := pool[key]; dup {
				return nil, fmt.Errorf("word bank: %s: category %q is listed more than once", d, key)
			}
			normalized := make([]string, 0, len(list))
			for _, w := range list {
				normalized = append(normalized, strings.ToLower(strings.TrimSpace(w)))
			}
			pool[key] = normalized
		}
		bank[d] = pool
	}
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	return bank, nil
}

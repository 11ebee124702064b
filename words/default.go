package words

import "wordguess/models"

// Default returns the built-in word lists. Repeated entries are intentional
// and make those words more likely.
func Default() Bank {
	return Bank{
		models.Beginner: {
			"animals": {"tiger", "zebra", "koala", "snake", "goose", "otter", "raven", "gazelle", "skunk", "whale", "horse", "sloth", "crane", "lemur", "shark", "frogs", "sheep", "zebra"},
			"fruits":  {"mango", "melon", "grape", "lemon", "peach", "grape", "melon", "grape", "lemon"},
			"flowers": {"tulip", "daisy", "lupin", "aster", "lotus", "violet", "tulip", "clove", "daisy", "rose", "clove", "daisy", "tulip"},
		},
		models.Intermediate: {
			"animals": {"zebra", "whale", "panda", "shark", "tiger", "horse", "lemur", "koala", "otter", "raven", "skunk", "frogs"},
			"fruits":  {"peach", "melon", "mango", "grape", "lemon", "apple", "berry", "grape", "melon"},
			"flowers": {"tulip", "rose", "daisy", "poppy", "violet", "tulip", "daisy", "poppy", "violet"},
		},
		models.Advanced: {
			"animals": {"hippo", "rhino", "crocs", "chimp", "lemur", "hyena", "dingo", "whale", "shark"},
			"fruits":  {"pomeg", "persi", "grape", "mango", "quinc", "guava", "dates", "plant", "lemon", "lyche", "apric", "papay", "mulbe", "berry", "prune", "mango", "grape"},
			"flowers": {"chrys", "hydrn", "anemo", "camel", "clemi", "tulip", "daisy", "poppy", "daffo", "vibur", "mimic", "dahli"},
		},
	}
}

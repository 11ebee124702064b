package conf

import (
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Addr      string `toml:"addr"`
	DBPath    string `toml:"db_path"`
	WordsFile string `toml:"words_file"`
	StaticDir string `toml:"static_dir"`
	// Seed fixes the word draw; 0 seeds from the clock.
	Seed int64 `toml:"seed"`
}

func Default() Config {
	return Config{
		Addr:      ":8080",
		DBPath:    "./wordguess.db",
		StaticDir: "./static",
	}
}

// LoadConfig reads filename over the defaults. An empty filename yields the
// defaults. Environment overrides are applied last.
func LoadConfig(filename string) (config Config, err error) {
	config = Default()
	if filename != "" {
		if _, err = toml.DecodeFile(filename, &config); err != nil {
			return config, err
		}
	}
	config.applyEnv()
	return config, nil
}

func (c *Config) applyEnv() {
	// Vercel only allows writes under /tmp.
	if os.Getenv("VERCEL") == "1" {
		c.DBPath = "/tmp/wordguess.db"
	}
	if v := os.Getenv("WORDGUESS_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("WORDGUESS_DB"); v != "" {
		c.DBPath = v
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	handlers "wordguess/api"
	"wordguess/conf"
	"wordguess/db"
	"wordguess/tui"
	"wordguess/words"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	wordsPath := flag.String("words", "", "path to a TOML word bank (overrides words_file)")
	playInTerminal := flag.Bool("tui", false, "play in the terminal instead of serving HTTP")
	flag.Parse()

	config, err := conf.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *wordsPath != "" {
		config.WordsFile = *wordsPath
	}

	bank := words.Default()
	if config.WordsFile != "" {
		if bank, err = words.Load(config.WordsFile); err != nil {
			log.Fatalf("Failed to load word bank: %v", err)
		}
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	if *playInTerminal {
		program := tea.NewProgram(tui.NewModel(bank, rng), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
			os.Exit(1)
		}
		return
	}

	store, err := db.Open(config.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()
	log.Println("Database initialized at:", config.DBPath)

	server := handlers.New(store, bank, rng, config.StaticDir)
	go server.SweepRounds(context.Background(), time.Minute)

	log.Printf("Server listening on %s", config.Addr)
	if err := http.ListenAndServe(config.Addr, server.Router()); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/n4ze3m/num-shift/internal/advisor"
	"github.com/n4ze3m/num-shift/internal/config"
	"github.com/n4ze3m/num-shift/internal/engine"
	"github.com/n4ze3m/num-shift/internal/models"
	"github.com/n4ze3m/num-shift/internal/puzzle"
	"github.com/n4ze3m/num-shift/internal/tui"
)

// maxMisses bounds unusable suggestions before the run gives up.
const maxMisses = 3

func main() {
	days := flag.Int("days", 7, "number of upcoming daily puzzles to print")
	start := flag.String("start", "", "first day (YYYY-MM-DD, default today UTC)")
	play := flag.Bool("play", true, "let the advisor play the first day when GEMINI_API_KEY is set")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	first := time.Now().UTC()
	if *start != "" {
		first, err = time.Parse(time.DateOnly, *start)
		if err != nil {
			log.Fatalf("Bad -start: %v", err)
		}
	}

	fmt.Println("--- Upcoming daily puzzles ---")
	fmt.Printf("%-10s  %-6s  %-6s  %-10s  %4s  %3s  %4s\n", "day", "base", "target", "pool", "max", "par", "same")
	for i := 0; i < *days; i++ {
		day := first.AddDate(0, 0, i)
		gc := puzzle.Daily(day)
		fmt.Printf("%-10s  %-6s  %-6s  %-10s  %4d  %3d  %4d\n",
			puzzle.DailyKey(day),
			gc.BaseNumber,
			gc.TargetNumber,
			fmt.Sprint(gc.MutationPool),
			gc.MaxAttempts,
			puzzle.OptimalMoves(gc.BaseNumber, gc.TargetNumber),
			models.Matches(gc.BaseNumber, gc.TargetNumber),
		)
	}

	if !*play || !cfg.AdvisorEnabled() {
		return
	}

	ctx := context.Background()
	// stdout carries the transcript; logs go to NUMSHIFT_LOG_FILE or stderr
	logger, closeLog, err := tui.NewLoggerTo(cfg, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to open log: %v", err)
	}
	defer closeLog()

	adv, err := advisor.New(ctx, cfg.GeminiAPIKey, cfg.Model, logger)
	if err != nil {
		log.Fatalf("Failed to create advisor: %v", err)
	}
	defer adv.Close()

	daily := engine.NewDaily(first, false)
	s := daily.Session
	fmt.Printf("\n--- Advisor plays %s: %s -> %s ---\n", daily.Key, s.Current, s.Config.TargetNumber)

	misses := 0
	for turn := 1; s.State() == engine.InProgress && misses < maxMisses; turn++ {
		sug, err := adv.Suggest(ctx, s)
		if err != nil {
			fmt.Printf("Turn %d: no usable move: %v\n", turn, err)
			misses++
			continue
		}
		before := s.Current
		solved, err := daily.PerformMutation(sug.Move)
		if err != nil {
			fmt.Printf("Turn %d: %s rejected: %v\n", turn, advisor.Describe(sug.Move), err)
			break
		}
		fmt.Printf("Turn %d: %-18s %s -> %s  (%s)\n", turn, advisor.Describe(sug.Move), before, s.Current, sug.Reason)
		if solved {
			fmt.Println()
			fmt.Println(engine.FormatShare(s.Summary(), first))
			return
		}
	}
	fmt.Printf("Advisor stopped at %s (%d/6 matched)\n", s.Current, models.Matches(s.Current, s.Config.TargetNumber))
}

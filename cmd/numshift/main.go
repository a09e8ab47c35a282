package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/n4ze3m/num-shift/internal/config"
	"github.com/n4ze3m/num-shift/internal/models"
	"github.com/n4ze3m/num-shift/internal/tui"
)

func main() {
	mode := flag.String("mode", string(models.ModeDaily), "daily or lab")
	store := flag.String("store", "", "override NUMSHIFT_STORE (yaml or sqlite)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	switch *store {
	case "":
	case config.StoreYAML, config.StoreSQLite:
		cfg.Store = *store
	default:
		fmt.Printf("Unknown store %q\n", *store)
		os.Exit(2)
	}

	m := models.Mode(*mode)
	if m != models.ModeDaily && m != models.ModeLab {
		fmt.Printf("Unknown mode %q, want daily or lab\n", *mode)
		os.Exit(2)
	}

	if err := tui.StartWith(cfg, m); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

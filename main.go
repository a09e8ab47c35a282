package main

import (
	"fmt"
	"os"

	"github.com/n4ze3m/num-shift/internal/tui"
)

func main() {
	if err := tui.Start(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

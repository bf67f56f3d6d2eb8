package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"reviewwise/internal/adapters/observability"
)

func main() {
	log.Logger = observability.NewLogger(os.Getenv("APP_ENV"))

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

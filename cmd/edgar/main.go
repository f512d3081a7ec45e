package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"edgar_statements/pkg/cli"
)

func main() {
	godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

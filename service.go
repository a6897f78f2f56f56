package main

import (
	"fmt"
	"os"

	"ewintr.nl/ytideas/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// a missing .env file is fine, the environment is used as is
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

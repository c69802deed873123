package main

import (
	"github.com/joho/godotenv"

	"reviewhub/cmd"
)

func main() {
	// Load .env in dev; production injects env vars through infra.
	_ = godotenv.Load()

	cmd.Execute()
}

// main.go
//
// Entry point: load .env, then hand over to the cobra commands in cmd/.
// Logging is configured by each command once the configuration is known.

package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/robalobadob/decrypto/cmd"
)

func main() {
	_ = godotenv.Load()
	if err := cmd.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}

package bootstrap

import (
	"log"

	"github.com/joho/godotenv"
)

// Loadenv loads .env into the process environment when present. It runs
// before the zap logger exists, so it reports through the standard logger.
func Loadenv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
}

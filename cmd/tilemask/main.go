package main

import (
	"context"
	"flag"
	"os"
	"strconv"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
)

// envInt returns the integer value of an environment variable, or fallback.
func envInt(name string, fallback int) int {
	if value, err := strconv.Atoi(os.Getenv(name)); err == nil {
		return value
	}
	return fallback
}

func envString(name string, fallback string) string {
	if value, ok := os.LookupEnv(name); ok {
		return value
	}
	return fallback
}

func main() {
	_ = godotenv.Load(".env")

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&buildCmd{}, "")
	subcommands.Register(&statusCmd{}, "")
	subcommands.Register(&polygonCmd{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

package main

import (
	"flag"
	"fmt"
	"os"

	dotenv "github.com/joho/godotenv"

	"dlb/internal/di"
	"dlb/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "./config.yaml", "path to the config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "log to console as well as files")
	flag.Parse()

	if err := dotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "WARN: no .env file loaded")
	}

	_, err := di.InitApp(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %s\n", err)
		os.Exit(1)
	}
}

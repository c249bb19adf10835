package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"matchday/internal/back"
	"matchday/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

// Version holds the build-time version string.
var Version = "unknown" // nolint:gochecknoglobals

func main() {
	flag.Parse()

	if err := run(flag.Arg(0)); err != nil {
		log.Fatalf("error: %s", err)
	}
}

func run(command string) error {
	switch command {
	case "version":
		fmt.Fprintf(os.Stdout, "Matchday %s\n", Version)
		return nil
	case "help":
		fmt.Fprint(os.Stdout, help())
		return nil
	}

	conf, err := config.NewFromUserConfigDir()
	if err != nil {
		return err
	}

	b, err := back.New("sqlite3", conf.SQLitePath, conf)
	if err != nil {
		return err
	}

	switch command {
	case "serve":
		return serve(b, conf)
	case "dev:fixtures":
		return b.LoadFixtures()
	case "rerank":
		return b.Rerank(flag.Arg(1))
	default:
		fmt.Fprint(os.Stderr, help())
		os.Exit(1)
		return nil
	}
}

func help() string {
	return fmt.Sprintf(`
Matchday keeps track of the games, attendance, and leaderboards of
recurring amateur sports groups.

Usage: %[1]s COMMAND [ARGS…]

COMMANDS
    dev:fixtures     create default data for quick testing during development
    help             display this help
    rerank SHORTCODE recompute the rankings of a group from scratch
    serve            start the API server and the periodic game scheduler
    version          display the current version
`,
		os.Args[0],
	)
}

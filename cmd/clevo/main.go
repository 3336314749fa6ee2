// Command clevo is the terminal front-end for the Clevo waste-management
// service. Each subcommand maps to one dashboard view or action.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hongminglow/clevo-client/internal/clienterr"
	"github.com/hongminglow/clevo-client/internal/config"
	"github.com/hongminglow/clevo-client/internal/logs"
)

func main() {
	loadLocalEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := realMain(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func realMain(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(stderr)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}
	logger := logs.New(cfg, stderr)

	if args[0] == "stub" {
		if err := runStub(ctx, cfg, logger, args[1:]); err != nil {
			fmt.Fprintf(stderr, "stub: %v\n", err)
			return 1
		}
		return 0
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "open session store: %v\n", err)
		return 1
	}
	defer closeStore()

	a := newApp(ctx, cfg, logger, store, stdout, http.DefaultTransport)
	if err := a.run(ctx, args[0], args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			usage(stderr)
			return 2
		}
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "error: %s\n", clienterr.UserMessage(err))
		}
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: clevo <command> [flags]")
	fmt.Fprintln(w)
	for _, c := range commandTable() {
		fmt.Fprintf(w, "  %-14s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(w, "  %-14s %s\n", "stub", "run the local development backend")
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}

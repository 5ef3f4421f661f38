// Command medexjob-admin runs one-off maintenance tasks against the same
// database and Redis the API uses.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/medexjob/medexjob-api/config"
	"github.com/medexjob/medexjob-api/internal/bootstrap"
)

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

type command struct {
	name  string
	usage string
	run   func(*commandContext, []string) error
}

// commands is kept in alphabetical order for the usage text.
var commands = []command{
	{"clear-plan-cache", "Drop the cached subscription plan catalog from Redis", runClearPlanCache},
	{"create-admin", "Create an admin account with a password", runCreateAdmin},
	{"db-reset", "Drop the public schema, migrate, and optionally seed", runDBReset},
	{"db-seed", "Migrate and load demo accounts and jobs", runDBSeed},
	{"list-pending", "List employers awaiting KYC review, oldest first", runListPending},
	{"migrate", "Apply database migrations (--status lists them)", runMigrations},
	{"revoke-sessions", "Delete every Redis session held by a user", runRevokeSessions},
	{"set-verification", "Set an employer's verification status", runSetVerification},
}

func main() {
	os.Exit(run(os.Args[1:])) //nolint:forbidigo // exit status is the CLI contract
}

// run returns 2 for usage errors and 1 when the command fails.
func run(args []string) int {
	logger := bootstrap.InitLogger()

	if len(args) == 0 {
		_ = printUsage(os.Stderr)
		return 2
	}
	cmd, ok := lookup(args[0])
	if !ok {
		_ = writef(os.Stderr, "unknown command %q\n\n", args[0])
		_ = printUsage(os.Stderr)
		return 2
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		return 1
	}
	cmdCtx := &commandContext{Ctx: context.Background(), Logger: logger, Config: cfg}
	if err := cmd.run(cmdCtx, args[1:]); err != nil {
		logger.Error("command failed", "command", cmd.name, "error", err)
		return 1
	}
	return 0
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: medexjob-admin <command> [flags]\n\nCommands:\n"); err != nil {
		return err
	}
	for _, c := range commands {
		if err := writef(w, "  %-18s %s\n", c.name, c.usage); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}

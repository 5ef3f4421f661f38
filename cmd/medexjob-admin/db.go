package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/medexjob/medexjob-api/internal/adapters/password"
	"github.com/medexjob/medexjob-api/internal/bootstrap"
	"github.com/medexjob/medexjob-api/internal/devseed"
	"github.com/medexjob/medexjob-api/internal/migrate"
)

const defaultMigrationTimeout = 5 * time.Minute

var errAborted = errors.New("aborted by user")

// dbFlags is shared by migrate, db-reset and db-seed; each command
// registers only the flags it understands.
type dbFlags struct {
	Timeout     time.Duration
	Status      bool
	Yes         bool
	Seed        bool
	AllowRemote bool
}

func parseDBFlags(name string, args []string, register func(*flag.FlagSet, *dbFlags)) (dbFlags, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := dbFlags{}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "Give up after this long")
	if register != nil {
		register(fs, &opts)
	}
	if err := fs.Parse(args); err != nil {
		return dbFlags{}, err
	}
	if opts.Timeout <= 0 {
		return dbFlags{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func allowRemoteFlag(fs *flag.FlagSet, o *dbFlags) {
	fs.BoolVar(&o.AllowRemote, "allow-remote", false, "Permit database hosts that do not look local")
}

func parseMigrateFlags(args []string) (dbFlags, error) {
	return parseDBFlags("migrate", args, func(fs *flag.FlagSet, o *dbFlags) {
		fs.BoolVar(&o.Status, "status", false, "Print each embedded migration and whether it is applied")
	})
}

func parseDBResetFlags(args []string) (dbFlags, error) {
	return parseDBFlags("db-reset", args, func(fs *flag.FlagSet, o *dbFlags) {
		fs.BoolVar(&o.Yes, "yes", false, "Do not ask for confirmation (ignored for remote hosts)")
		fs.BoolVar(&o.Seed, "seed", false, "Load demo accounts and jobs afterwards")
		allowRemoteFlag(fs, o)
	})
}

func parseDBSeedFlags(args []string) (dbFlags, error) {
	return parseDBFlags("db-seed", args, allowRemoteFlag)
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}
	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		if opts.Status {
			return printMigrationStatus(ctx, os.Stdout, db)
		}
		return cmdCtx.migrate(ctx, db)
	})
}

func printMigrationStatus(ctx context.Context, w io.Writer, db *sql.DB) error {
	migrations, err := migrate.Status(ctx, db)
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_ = writeln(tw, "VERSION\tAPPLIED")
	for _, m := range migrations {
		mark := "no"
		if m.Applied {
			mark = "yes"
		}
		_ = writef(tw, "%s\t%s\n", m.Version, mark)
	}
	return tw.Flush()
}

func runDBReset(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBResetFlags(args)
	if err != nil {
		return err
	}

	pg := cmdCtx.Config.Postgres
	plan := resetPlan{
		database: pg.Name,
		host:     pg.Host,
		port:     pg.Port,
		remote:   isLikelyRemoteHost(pg.Host),
		yes:      opts.Yes,
	}
	con := stdConsole()
	if plan.remote {
		if err := con.remoteGuard(pg.Host, opts.AllowRemote, "drop and recreate the public schema"); err != nil {
			return err
		}
	}
	if err := con.confirmReset(plan); err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.InfoContext(ctx, "dropping public schema", "database", pg.Name)
		for _, stmt := range resetStatements(pg.User) {
			if _, execErr := db.ExecContext(ctx, stmt); execErr != nil {
				return fmt.Errorf("exec %q: %w", stmt, execErr)
			}
		}
		if migrateErr := cmdCtx.migrate(ctx, db); migrateErr != nil {
			return migrateErr
		}
		if opts.Seed {
			return cmdCtx.seed(ctx, db)
		}
		return nil
	})
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBSeedFlags(args)
	if err != nil {
		return err
	}
	host := cmdCtx.Config.Postgres.Host
	if isLikelyRemoteHost(host) {
		if err := stdConsole().remoteGuard(host, opts.AllowRemote, "insert demo accounts and jobs"); err != nil {
			return err
		}
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		if migrateErr := cmdCtx.migrate(ctx, db); migrateErr != nil {
			return migrateErr
		}
		return cmdCtx.seed(ctx, db)
	})
}

func (cmdCtx *commandContext) migrate(ctx context.Context, db *sql.DB) error {
	if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	cmdCtx.Logger.InfoContext(ctx, "migrations applied")
	return nil
}

func (cmdCtx *commandContext) seed(ctx context.Context, db *sql.DB) error {
	hasher := password.NewBcryptHasher(cmdCtx.Config.Auth.BcryptCost)
	if err := devseed.Run(ctx, devseed.NewServices(db, hasher), cmdCtx.Logger); err != nil {
		return fmt.Errorf("seed data: %w", err)
	}
	cmdCtx.Logger.InfoContext(ctx, "demo data loaded", "password", devseed.DefaultPassword)
	return nil
}

// withDatabase runs f with an open pool. The context ends on SIGINT,
// SIGTERM or after timeout.
func withDatabase(cmdCtx *commandContext, timeout time.Duration, f func(context.Context, *sql.DB) error) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()
	return f(ctx, db)
}

func resetStatements(owner string) []string {
	stmts := []string{
		"DROP SCHEMA public CASCADE",
		"CREATE SCHEMA public",
		"GRANT ALL ON SCHEMA public TO public",
	}
	if owner = strings.TrimSpace(owner); owner != "" && !strings.EqualFold(owner, "public") {
		stmts = append(stmts, "GRANT ALL ON SCHEMA public TO "+quoteIdentifier(owner))
	}
	return stmts
}

func quoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// isLikelyRemoteHost treats loopback, *.local and dotless compose service
// names as local.
func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	switch {
	case h == "", h == "localhost", strings.HasSuffix(h, ".local"):
		return false
	}
	if ip := net.ParseIP(h); ip != nil {
		return !ip.IsLoopback()
	}
	return strings.Contains(h, ".")
}

type resetPlan struct {
	database string
	host     string
	port     int
	remote   bool
	yes      bool
}

// skipPrompt honours --yes only for local hosts.
func (p resetPlan) skipPrompt() bool { return p.yes && !p.remote }

func (p resetPlan) warning() string {
	msg := fmt.Sprintf("WARNING: this drops and recreates the public schema of %q on %s:%d.", p.database, p.host, p.port)
	if p.remote {
		msg += fmt.Sprintf(" Host %q appears to be remote.", p.host)
	}
	return msg
}

// console asks yes/no questions on an interactive terminal.
type console struct {
	in  *bufio.Reader
	out io.Writer
}

func stdConsole() console {
	return console{in: bufio.NewReader(os.Stdin), out: os.Stderr}
}

func (c console) readLine() (string, bool) {
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (c console) confirmReset(p resetPlan) error {
	if p.skipPrompt() {
		return nil
	}
	_ = writef(c.out, "%s\nContinue? [y/N]: ", p.warning())
	answer, ok := c.readLine()
	if !ok {
		return errAborted
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return nil
	}
	return errAborted
}

// remoteGuard refuses remote hosts unless allowed, and then still asks the
// operator to type the host name back.
func (c console) remoteGuard(host string, allow bool, action string) error {
	if !allow {
		return fmt.Errorf("refusing to %s on %q which does not look local; pass --allow-remote to override", action, host)
	}
	_ = writef(c.out, "Database host %q does not look local. This will %s.\nType the host name to continue: ", host, action)
	answer, ok := c.readLine()
	if !ok || answer != host {
		return errAborted
	}
	return nil
}

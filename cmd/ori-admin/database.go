package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ori-platform/ori-auth/config"
	mongostore "github.com/ori-platform/ori-auth/internal/adapters/mongo"
)

type checkDBOptions struct {
	Timeout time.Duration
}

func parseCheckDBFlags(args []string) (checkDBOptions, error) {
	var opts checkDBOptions
	fs := flag.NewFlagSet("check-db", flag.ContinueOnError)
	fs.DurationVar(&opts.Timeout, "timeout", 15*time.Second, "connection timeout")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.Timeout <= 0 {
		return opts, errors.New("--timeout must be positive")
	}
	return opts, nil
}

// runCheckDB verifies DATABASE_URL is reachable and prints what it can see.
func runCheckDB(cmdCtx *commandContext, args []string) error {
	opts, err := parseCheckDBFlags(args)
	if err != nil {
		return err
	}

	dbCfg := cmdCtx.Config.Database
	if err := writef(cmdCtx.Stdout, "Connecting to %s\n", describeTarget(dbCfg)); err != nil {
		return fmt.Errorf("print target: %w", err)
	}

	return withStore(cmdCtx, opts.Timeout, true, func(ctx context.Context, conn *mongostore.Conn) error {
		if err := conn.Ping(ctx); err != nil {
			return fmt.Errorf("ping: %w", err)
		}
		if err := writeln(cmdCtx.Stdout, "Ping: ok"); err != nil {
			return fmt.Errorf("print ping result: %w", err)
		}

		names, err := conn.ListDatabases(ctx)
		if err != nil {
			return err
		}
		return printDatabases(cmdCtx.Stdout, names, conn.Database())
	})
}

func describeTarget(cfg config.DatabaseConfig) string {
	if cfg.URL == "" {
		return "(DATABASE_URL is not set)"
	}
	return fmt.Sprintf("%s (database %q)", mongostore.RedactURI(cfg.URL), cfg.Name)
}

func printDatabases(w io.Writer, names []string, current string) error {
	if err := writef(w, "Databases (%d):\n", len(names)); err != nil {
		return fmt.Errorf("print databases header: %w", err)
	}
	if len(names) == 0 {
		if err := writeln(w, "  (none visible to this user)"); err != nil {
			return fmt.Errorf("print databases empty: %w", err)
		}
		return nil
	}
	for _, name := range names {
		marker := ""
		if name == current {
			marker = " (configured)"
		}
		if err := writef(w, "  - %s%s\n", name, marker); err != nil {
			return fmt.Errorf("print database row: %w", err)
		}
	}
	return nil
}

type pruneOptions struct {
	Timeout     time.Duration
	Yes         bool
	AllowRemote bool
}

func parsePruneFlags(args []string) (pruneOptions, error) {
	var opts pruneOptions
	fs := flag.NewFlagSet("prune-sessions", flag.ContinueOnError)
	fs.DurationVar(&opts.Timeout, "timeout", 2*time.Minute, "overall timeout")
	fs.BoolVar(&opts.Yes, "yes", false, "skip the confirmation prompt")
	fs.BoolVar(&opts.AllowRemote, "allow-remote", false, "allow running against a non-local database host")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.Timeout <= 0 {
		return opts, errors.New("--timeout must be positive")
	}
	return opts, nil
}

// runPruneSessions deletes expired sessions. The TTL index does this on its
// own schedule; this is for clearing them immediately.
func runPruneSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parsePruneFlags(args)
	if err != nil {
		return err
	}

	if cmdCtx.Config.Auth.SessionStore == config.SessionStoreRedis {
		return writeln(cmdCtx.Stdout, "Sessions are stored in Redis and expire with their keys; nothing to prune.")
	}

	host := hostFromURI(cmdCtx.Config.Database.URL)
	remote := isLikelyRemoteHost(host)
	if remote && !opts.AllowRemote {
		return fmt.Errorf(
			"refusing to run against potentially remote database host %q; re-run with --allow-remote if this is intentional",
			host,
		)
	}
	if !opts.Yes || remote {
		if err := confirm(cmdCtx, fmt.Sprintf("delete expired sessions from database %q on %q", cmdCtx.Config.Database.Name, host)); err != nil {
			return err
		}
	}

	return withStore(cmdCtx, opts.Timeout, false, func(ctx context.Context, conn *mongostore.Conn) error {
		n, err := conn.Sessions().DeleteExpired(ctx)
		if err != nil {
			return fmt.Errorf("delete expired sessions: %w", err)
		}
		cmdCtx.Logger.InfoContext(ctx, "prune sessions complete", "deleted", n)
		return writef(cmdCtx.Stdout, "Deleted %d expired session(s)\n", n)
	})
}

func withStore(
	cmdCtx *commandContext,
	timeout time.Duration,
	skipIndexes bool,
	f func(context.Context, *mongostore.Conn) error,
) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := mongostore.Connect(ctx, mongostore.ConnectOptions{
		URI:         cmdCtx.Config.Database.URL,
		Database:    cmdCtx.Config.Database.Name,
		Timeout:     timeout,
		SkipIndexes: skipIndexes,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if cerr := conn.Close(context.WithoutCancel(ctx)); cerr != nil {
			cmdCtx.Logger.Warn("database close failed", "error", cerr)
		}
	}()

	return f(ctx, conn)
}

func confirm(cmdCtx *commandContext, action string) error {
	if err := writef(cmdCtx.Stdout, "About to %s.\n", action); err != nil {
		return fmt.Errorf("print confirmation message: %w", err)
	}
	if err := write(cmdCtx.Stdout, "Continue? [y/N]: "); err != nil {
		return fmt.Errorf("print confirmation prompt: %w", err)
	}
	reader := bufio.NewReader(cmdCtx.Stdin)
	resp, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.New("aborted by user")
	}
	resp = strings.ToLower(strings.TrimSpace(resp))
	if resp == "y" || resp == "yes" {
		return nil
	}
	return errors.New("aborted by user")
}

func hostFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	// mongodb:// URIs may list several hosts; the first one is enough to judge locality.
	host, _, _ := strings.Cut(u.Host, ",")
	if h, _, splitErr := net.SplitHostPort(host); splitErr == nil {
		return h
	}
	return host
}

func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" {
		return false
	}
	if h == "localhost" || h == "127.0.0.1" || h == "::1" {
		return false
	}
	if strings.HasSuffix(h, ".local") {
		return false
	}
	if ip := net.ParseIP(h); ip != nil {
		return !ip.IsLoopback()
	}
	return true
}

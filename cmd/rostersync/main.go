package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/avisko/rostersync/internal/config"
	"github.com/avisko/rostersync/internal/logging"
	"github.com/joho/godotenv"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err == nil {
		slog.Debug("loaded .env file (overwriting existing env vars)")
	}

	// Bootstrap logging from the env-only logging section; commands that
	// load the full configuration re-apply it after validation.
	lc := config.LoadLogging()
	logging.Setup(lc.Level, lc.Format)

	registry := NewCommandRegistry(VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	registerCommands(registry)

	if err := registry.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func registerCommands(r *CommandRegistry) {
	r.Register(&Command{
		Name:        "sync",
		Description: "Synchronize roster users from an Excel file to the realm",
		Usage:       "rostersync sync [flags] <file.xlsx>",
		Examples: []string{
			"rostersync sync members.xlsx",
			"rostersync sync --dry-run members.xlsx",
			"rostersync sync --email jane.doe@example.com members.xlsx",
		},
		Run: syncCommand,
	})

	r.Register(&Command{
		Name:        "dump-excel",
		Description: "Parse an Excel roster and print the normalized records",
		Usage:       "rostersync dump-excel <file.xlsx>",
		Examples: []string{
			"rostersync dump-excel members.xlsx",
		},
		Run: dumpExcelCommand,
	})

	r.Register(&Command{
		Name:        "send-verification",
		Description: "Send a verification email to one account",
		Usage:       "rostersync send-verification <email>",
		Examples: []string{
			"rostersync send-verification jane.doe@example.com",
		},
		Run: sendVerificationCommand,
	})

	r.Register(&Command{
		Name:        "set-all-emails-verified",
		Description: "Mark every account's email address as verified",
		Usage:       "rostersync set-all-emails-verified",
		Run:         setAllEmailsVerifiedCommand,
	})

	r.Register(&Command{
		Name:        "verify-token",
		Description: "Introspect a token and print its claims",
		Usage:       "rostersync verify-token [flags] <token>",
		Examples: []string{
			"rostersync verify-token eyJhbGciOi...",
			"rostersync verify-token --format json eyJhbGciOi...",
		},
		Run: verifyTokenCommand,
	})
}

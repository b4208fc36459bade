package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/avisko/rostersync/internal/config"
	"github.com/avisko/rostersync/internal/directory"
	"github.com/avisko/rostersync/internal/directory/keycloak"
	"github.com/avisko/rostersync/internal/engine"
	"github.com/avisko/rostersync/internal/excel"
	"github.com/avisko/rostersync/internal/logging"
	"github.com/avisko/rostersync/internal/roster"
)

// syncCommand runs the full pipeline: roster read, snapshot fetch,
// reconcile, execute. Reading the roster or fetching the snapshot is fatal;
// per-intent failures are isolated and surface through the exit code after
// every intent had its chance to apply.
func syncCommand(args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "only print actions, do not execute them")
	emailFilter := fs.String("email", "", "only sync the user with this email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	file := fs.Arg(0)
	if file == "" {
		fs.Usage()
		return fmt.Errorf("missing roster file argument")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.WithFields("realm", cfg.Keycloak.Realm, "dry_run", *dryRun)
	log.Info("synchronizing roster", "file", file)

	records, cols, err := roster.Load(excel.NewSource(file))
	if err != nil {
		return err
	}
	log.Info("roster parsed",
		"records", len(records),
		"email_column", cols.Email,
		"name_column", cols.Name,
	)

	if *emailFilter != "" {
		records = filterByEmail(records, *emailFilter)
		if len(records) == 0 {
			return fmt.Errorf("no roster record with email %s", *emailFilter)
		}
	}

	client := newDirectoryClient(ctx, cfg)
	users, err := client.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("fetch directory snapshot: %w", err)
	}
	snapshot := directory.NewSnapshot(users)
	log.Info("directory snapshot fetched", "users", snapshot.Len())

	reconciler := engine.NewReconciler(engine.NewProtectedSet(cfg.Sync.ProtectedEmails))
	if *emailFilter != "" {
		// A single-address run must not disable everyone else.
		reconciler.DisableMissing = false
	}
	intents := reconciler.Reconcile(records, snapshot)

	executor := engine.NewExecutor(client, *dryRun, os.Stdout)
	summary := executor.Execute(ctx, intents)
	fmt.Printf("sync complete: %s\n", summary)

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d intents failed", summary.Failed, len(intents))
	}
	return nil
}

// filterByEmail keeps only records with exactly this address,
// case-insensitively.
func filterByEmail(records []roster.DesiredUser, email string) []roster.DesiredUser {
	email = strings.ToLower(strings.TrimSpace(email))
	var filtered []roster.DesiredUser
	for _, rec := range records {
		if rec.Email == email {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// newDirectoryClient builds the Keycloak client from configuration.
func newDirectoryClient(ctx context.Context, cfg *config.Config) *keycloak.Client {
	return keycloak.New(ctx, keycloak.Config{
		Server:          cfg.Keycloak.Server,
		Realm:           cfg.Keycloak.Realm,
		ClientID:        cfg.Keycloak.ClientID,
		ClientSecret:    cfg.Keycloak.ClientSecret,
		Timeout:         cfg.Keycloak.HTTPTimeout,
		PageSize:        cfg.Keycloak.ListPageSize,
		RequiredActions: cfg.Sync.RequiredUserActions,
	})
}

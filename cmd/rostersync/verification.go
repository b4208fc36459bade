package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/avisko/rostersync/internal/config"
	"github.com/avisko/rostersync/internal/logging"
)

// sendVerificationCommand resets one account's verified flag and asks the
// directory to send a fresh verification email.
func sendVerificationCommand(args []string) error {
	fs := flag.NewFlagSet("send-verification", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	email := fs.Arg(0)
	if email == "" {
		return fmt.Errorf("missing email argument")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newDirectoryClient(ctx, cfg)
	user, err := client.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := client.SetEmailVerified(ctx, user.ID, false); err != nil {
		return err
	}
	if err := client.SendVerifyEmail(ctx, user.ID); err != nil {
		return err
	}

	fmt.Printf("Verification email sent to %s (%s)\n", user.Username, email)
	return nil
}

// setAllEmailsVerifiedCommand marks every account's email verified.
// Per-user failures are logged and the remaining accounts still get their
// chance.
func setAllEmailsVerifiedCommand(args []string) error {
	fs := flag.NewFlagSet("set-all-emails-verified", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newDirectoryClient(ctx, cfg)
	users, err := client.ListUsers(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, user := range users {
		if err := client.SetEmailVerified(ctx, user.ID, true); err != nil {
			slog.Error("setting email verified failed",
				"username", user.Username, "email", user.Email, "error", err)
			failed++
			continue
		}
		slog.Info("email set as verified", "username", user.Username, "email", user.Email)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d accounts failed", failed, len(users))
	}
	fmt.Printf("All %d emails set as verified.\n", len(users))
	return nil
}

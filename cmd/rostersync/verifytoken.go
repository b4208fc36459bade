package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/avisko/rostersync/internal/config"
	"github.com/avisko/rostersync/internal/logging"
)

// keyClaims are printed first, in this order, by the pretty format.
var keyClaims = []struct {
	label string
	claim string
}{
	{"Subject (User ID)", "sub"},
	{"Email", "email"},
	{"Email Verified", "email_verified"},
	{"Preferred Username", "preferred_username"},
	{"Name", "name"},
	{"Given Name", "given_name"},
	{"Family Name", "family_name"},
	{"Issued At", "iat"},
	{"Expiration", "exp"},
	{"Not Before", "nbf"},
	{"Issuer", "iss"},
	{"Audience", "aud"},
	{"Token Type", "typ"},
}

// verifyTokenCommand introspects a token against the realm and prints its
// claims. An inactive token (expired, revoked, or from another realm) is an
// error.
func verifyTokenCommand(args []string) error {
	fs := flag.NewFlagSet("verify-token", flag.ExitOnError)
	format := fs.String("format", "pretty", "output format: json or pretty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token := fs.Arg(0)
	if token == "" {
		return fmt.Errorf("missing token argument")
	}
	if *format != "json" && *format != "pretty" {
		return fmt.Errorf("invalid format %q: must be json or pretty", *format)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newDirectoryClient(ctx, cfg)
	claims, err := client.IntrospectToken(ctx, token)
	if err != nil {
		return fmt.Errorf("token verification failed: %w", err)
	}

	if active, _ := claims["active"].(bool); !active {
		return fmt.Errorf("token is not active")
	}

	if *format == "json" {
		data, err := json.MarshalIndent(claims, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printClaimsPretty(claims)
	return nil
}

func printClaimsPretty(claims map[string]any) {
	fmt.Println("Token verified successfully!")
	fmt.Println()
	fmt.Println("TOKEN CLAIMS:")

	printed := map[string]bool{"active": true}
	for _, kc := range keyClaims {
		value, ok := claims[kc.claim]
		if !ok {
			continue
		}
		printed[kc.claim] = true
		fmt.Printf("%-25s: %v\n", kc.label, formatClaim(kc.claim, value))
	}

	var others []string
	for key := range claims {
		if !printed[key] {
			others = append(others, key)
		}
	}
	if len(others) == 0 {
		return
	}
	sort.Strings(others)

	fmt.Println()
	fmt.Println("OTHER CLAIMS:")
	for _, key := range others {
		fmt.Printf("%-25s: %v\n", key, claims[key])
	}
}

// formatClaim annotates unix-timestamp claims with a readable time.
func formatClaim(claim string, value any) any {
	switch claim {
	case "iat", "exp", "nbf":
		if ts, ok := value.(float64); ok {
			return fmt.Sprintf("%.0f (%s)", ts, time.Unix(int64(ts), 0).Format(time.RFC3339))
		}
	}
	return value
}

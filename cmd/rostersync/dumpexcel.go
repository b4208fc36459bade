package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"

	"github.com/avisko/rostersync/internal/excel"
	"github.com/avisko/rostersync/internal/roster"
)

// dumpExcelCommand parses a roster workbook and prints the normalized
// records as JSON. It never contacts the directory, so it needs no
// Keycloak configuration.
func dumpExcelCommand(args []string) error {
	fs := flag.NewFlagSet("dump-excel", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	file := fs.Arg(0)
	if file == "" {
		return fmt.Errorf("missing roster file argument")
	}

	records, cols, err := roster.Load(excel.NewSource(file))
	if err != nil {
		return err
	}
	slog.Info("roster parsed",
		"records", len(records),
		"email_column", cols.Email,
		"name_column", cols.Name,
	)

	if len(records) == 0 {
		fmt.Println("No records found.")
		return nil
	}

	for _, rec := range records {
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}
	return nil
}

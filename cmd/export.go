// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"mealtrack/cli/internal/backend"
	"mealtrack/cli/internal/dsn"
	"mealtrack/cli/internal/exportdb"
	"mealtrack/cli/internal/keychain"
	"mealtrack/cli/internal/logging"

	"atomicgo.dev/cursor"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	verboseExport bool
	exportDays    int
	exportMeal    string
)

// exportCmd mirrors the food diary into the user's own PostgreSQL database.
// The destination is whatever 'connect' verified and saved; entries are
// upserted so the command can be re-run any time to catch up.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Mirror your food-log history into your own database",
	Long: `The export command copies your food diary out of Mealtrack and into your
own PostgreSQL database, so your data stays yours. It fetches your logs from
the service page by page and upserts them into the ` + exportdb.TableName + `
table, creating it on first run.

Configure the destination once with 'mealtrack connect', or set the
MEALTRACK_EXPORT_DSN (or DATABASE_URL) environment variable. Exports are
idempotent: re-running updates existing rows instead of duplicating them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Enable verbose mode for all modules if --verbose is set
		if verboseExport {
			os.Setenv("MEALTRACK_VERBOSE", "1")
		}

		if exportMeal != "" && !isMealType(exportMeal) {
			fmt.Printf("❌ Unknown meal %q. Use one of: %s.\n", exportMeal, strings.Join(mealTypes, ", "))
			return errors.New("invalid meal type")
		}

		sess, api, err := openSession()
		if err != nil {
			showOperationError(err, "opening your session")
			return err
		}
		if !ensureSignedIn(sess) {
			return nil
		}

		startAt := time.Now()
		ctx := cmd.Context()

		// Resolve DSN from env or keychain (not from config)
		rawDSN := ""
		if env := os.Getenv("MEALTRACK_EXPORT_DSN"); strings.TrimSpace(env) != "" {
			rawDSN = strings.TrimSpace(env)
		} else if env := os.Getenv("DATABASE_URL"); strings.TrimSpace(env) != "" {
			rawDSN = strings.TrimSpace(env)
		}
		if strings.TrimSpace(rawDSN) == "" {
			if km, err := keychain.GetManager(); err == nil {
				if v, err := km.LoadExportDSN(); err == nil && strings.TrimSpace(v) != "" {
					rawDSN = strings.TrimSpace(v)
				}
			}
		}
		if strings.TrimSpace(rawDSN) == "" {
			fmt.Println("⚠️  No export database configured.")
			fmt.Println("   Please run 'mealtrack connect' to configure your database.")
			return nil
		}

		// Parse and normalize the DSN to handle special characters
		normalizedDSN, err := dsn.Parse(rawDSN)
		if err != nil {
			fmt.Println("❌ Invalid database connection string.")
			var parseErr *dsn.ParseError
			if errors.As(err, &parseErr) {
				fmt.Println("   " + parseErr.Error())
			}
			fmt.Println("   Please run 'mealtrack connect' to reconfigure your database.")
			return err
		}

		// Display database connection info (masked)
		maskedDSN := logging.Mask(normalizedDSN)
		dbName := deriveDBName(normalizedDSN)
		pterm.Println()
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Database:   ") + pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(dbName))
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Connection: ") + pterm.NewStyle(pterm.FgLightBlue).Sprint(maskedDSN))
		pterm.Println()

		pool, err := pgxpool.New(ctx, normalizedDSN)
		if err != nil {
			pterm.Printf("❌ Failed to connect to database\n")
			pterm.Println(logging.PresentError("", err))
			return err
		}
		defer pool.Close()

		writer := exportdb.New(pool)
		if err := writer.EnsureSchema(ctx); err != nil {
			pterm.Printf("❌ Failed to prepare the export table\n")
			pterm.Println(logging.PresentError("", err))
			return err
		}

		var window backend.LogQuery
		window.MealType = exportMeal
		if exportDays > 0 {
			now := time.Now()
			start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
			window.Start = start.AddDate(0, 0, -(exportDays - 1))
			window.End = now
		}

		// Braille spinner frames similar to docker CLI
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		frameIdx := 0
		var progressMu sync.Mutex
		var fetched, written int64

		cursor.Hide()
		defer cursor.Show()
		area, areaErr := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
		spinStop := make(chan struct{})
		var spinWG sync.WaitGroup
		if areaErr == nil {
			spinWG.Add(1)
			go func() {
				defer spinWG.Done()
				t := time.NewTicker(120 * time.Millisecond)
				defer t.Stop()
				for {
					select {
					case <-t.C:
						frameIdx++
						progressMu.Lock()
						f, w := fetched, written
						progressMu.Unlock()
						area.Update(fmt.Sprintf("%s exporting food logs (fetched %d, written %d)", frames[frameIdx%len(frames)], f, w))
					case <-spinStop:
						return
					}
				}
			}()
		}
		spinnerDone := false
		stopSpinner := func() {
			if spinnerDone {
				return
			}
			spinnerDone = true
			close(spinStop)
			spinWG.Wait()
			if areaErr == nil {
				area.Stop()
			}
		}
		defer stopSpinner()

		// Page through the diary; the service caps page size so large
		// histories arrive in chunks.
		const pageSize = 100
		skip := 0
		for {
			query := window
			query.Skip = skip
			query.Limit = pageSize
			page, err := api.Logs(ctx, sess.Token(), query)
			if err != nil {
				stopSpinner()
				showOperationError(err, "fetching your food logs")
				return err
			}
			if len(page) == 0 {
				break
			}

			n, err := writer.WriteLogs(ctx, page)
			if err != nil {
				stopSpinner()
				pterm.Printf("❌ Failed to write to your export database\n")
				pterm.Println(logging.PresentError("", err))
				return err
			}

			progressMu.Lock()
			fetched += int64(len(page))
			written += n
			progressMu.Unlock()

			skip += len(page)
			if len(page) < pageSize {
				break
			}
		}
		stopSpinner()

		elapsed := time.Since(startAt).Round(time.Millisecond)
		if written == 0 {
			fmt.Println("⚠️  Nothing to export - no diary entries matched this period.")
			fmt.Println("   Try 'mealtrack log add' first, or widen the window with --days.")
			return nil
		}

		title := pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint("Export Completed")
		details := fmt.Sprintf("Duration: %s\nEntries exported: %d\nTable: %s", elapsed, written, exportdb.TableName)
		pterm.Println(pterm.DefaultBox.WithTitle(title).WithPadding(1).Sprint(details))
		return nil
	},
}

// deriveDBName extracts the database name from a PostgreSQL DSN URL.
// Returns an empty string if the DSN cannot be parsed.
func deriveDBName(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolVarP(&verboseExport, "verbose", "v", false, "Enable verbose debug output")
	exportCmd.Flags().IntVar(&exportDays, "days", 0, "Only export the last N days (default: everything)")
	exportCmd.Flags().StringVar(&exportMeal, "meal", "", "Only export one meal: breakfast, lunch, dinner or snack")
}

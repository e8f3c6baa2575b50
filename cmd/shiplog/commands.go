package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"shiplog/internal/cli"
	"shiplog/internal/core"
	"shiplog/internal/editor"
	"shiplog/internal/export"
	apphttp "shiplog/internal/http"
	applog "shiplog/internal/log"
)

const shutdownTimeout = 30 * time.Second

func newSaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save DATE COUNT",
		Short: "Record the shipment count for a day, replacing any existing value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed := a.editor(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err := ed.Save(cmd.Context(), a.resolveDate(args[0]), args[1]); err != nil {
				return asShown(err)
			}
			a.logger.Debug("Saved shipment record", applog.FieldOperation, applog.OpSave,
				applog.FieldDate, args[0], applog.FieldCount, args[1])
			return nil
		},
	}
}

func newModifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "modify DATE COUNT",
		Short: "Change the shipment count of a day after confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed := a.editor(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			outcome, err := ed.Modify(cmd.Context(), a.resolveDate(args[0]), args[1])
			if err != nil {
				return asShown(err)
			}
			a.logger.Debug("Modify finished", applog.FieldOperation, applog.OpModify,
				applog.FieldDate, args[0], "outcome", outcome.String())
			return nil
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every record (asks for the reset passphrase)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ed := a.editor(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			outcome, err := ed.Reset(cmd.Context())
			if err != nil {
				return asShown(err)
			}
			a.logger.Info("Reset finished", applog.FieldOperation, applog.OpReset, "outcome", outcome.String())
			return nil
		},
	}
}

func newSelectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select DATE",
		Short: "Show the stored count for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed := a.editor(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			sel, err := ed.Select(cmd.Context(), a.resolveDate(args[0]))
			if err != nil {
				return asShown(err)
			}
			if sel.CanModify() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d shipments\n", sel.Date, sel.Prior)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no record\n", sel.Date)
			}
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Draw the daily and monthly charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := a.store.Load(cmd.Context())
			if err := a.renderCharts(cmd.OutOrStdout(), m); err != nil {
				return err
			}
			year := a.reportYear()
			total := core.MonthlyTotalsFor(m, year).Sum()
			fmt.Fprintf(cmd.OutOrStdout(), "Total %d: %d\n", year, total)
			a.logger.Debug("Charts drawn", applog.FieldOperation, applog.OpShow,
				applog.FieldYear, year, applog.FieldCount, len(m))
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		dir    string
		sheets bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the daily and monthly sheets to an .xlsx file",
		Long: `Write a workbook with a Daily sheet holding every record and a Monthly
sheet holding the twelve totals of --year. With --sheets the same two tabs
are also written to the Google spreadsheet in GOOGLE_SPREADSHEET_ID.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if dir == "" {
				dir = a.cfg.ExportDir
			}
			exportLog := a.logger.WithComponent(applog.ComponentExport).With(applog.FieldOperation, applog.OpExport)
			exporters := []export.Exporter{&export.XLSXWriter{Dir: dir, Logger: exportLog.Logger}}
			if sheets {
				if !a.cfg.SheetsEnabled() {
					return errors.New("--sheets needs GOOGLE_SPREADSHEET_ID")
				}
				sw, err := export.NewSheetsWriter(ctx, export.SheetsConfig{
					SpreadsheetID:   a.cfg.GoogleSpreadsheetID,
					CredentialsJSON: a.cfg.GoogleServiceAccountJSON,
					CredentialsFile: a.cfg.GoogleServiceAccountFile,
					Logger:          exportLog.Logger,
				})
				if err != nil {
					return err
				}
				exporters = append(exporters, sw)
			}

			wb := export.Build(a.store.Load(ctx), a.reportYear(), a.now(), a.cfg.ExportPrefix)
			locations := make([]string, len(exporters))
			g, gctx := errgroup.WithContext(ctx)
			for i, ex := range exporters {
				g.Go(func() error {
					loc, err := ex.Export(gctx, wb)
					locations[i] = loc
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			for _, loc := range locations {
				fmt.Fprintln(cmd.OutOrStdout(), loc)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (default: EXPORT_DIR)")
	cmd.Flags().BoolVar(&sheets, "sheets", false, "Also write to the configured Google spreadsheet")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart data and workbook download over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cli.SignalContext(cmd.Context(), a.logger.Logger)
			defer cancel()

			srv := apphttp.NewServer(":"+a.cfg.Port, a.store, a.logger.WithComponent(applog.ComponentHTTP),
				apphttp.WithExportPrefix(a.cfg.ExportPrefix))

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("Starting shiplog server", applog.FieldOperation, applog.OpServe,
					"port", a.cfg.Port, applog.FieldBackend, a.cfg.StoreBackend)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err, ok := <-errCh:
				if ok {
					return fmt.Errorf("server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
			a.logger.Info("Server stopped gracefully", applog.FieldOperation, applog.OpShutdown)
			return nil
		},
	}
}

// asShown wraps editor failures the user was already notified about.
func asShown(err error) error {
	var ve *editor.ValidationError
	if errors.As(err, &ve) || errors.Is(err, editor.ErrAuthentication) || errors.Is(err, editor.ErrNoRecord) {
		return &shownError{err: err}
	}
	return err
}

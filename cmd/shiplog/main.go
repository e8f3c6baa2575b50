// Command shiplog records daily shipment counts and reports monthly totals.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shiplog/internal/chart"
	"shiplog/internal/cli"
	"shiplog/internal/config"
	"shiplog/internal/core"
	"shiplog/internal/editor"
	applog "shiplog/internal/log"
	"shiplog/internal/notify"
	"shiplog/internal/store"
)

func main() {
	root, a := newRootCmd()
	err := root.Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		var shown *shownError
		if !errors.As(err, &shown) {
			slog.Error("Command failed", applog.FieldError, err)
		}
		os.Exit(1)
	}
}

// shownError marks failures the user already saw as a notice.
type shownError struct{ err error }

func (e *shownError) Error() string { return e.err.Error() }
func (e *shownError) Unwrap() error { return e.err }

// app holds what every subcommand needs once the environment is loaded.
type app struct {
	cfg    *config.Config
	logger *applog.Logger
	store  *store.Store
	now    func() time.Time

	year int
}

// newRootCmd builds the command tree. The caller closes the app once the
// command has run, whether or not it failed.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:   "shiplog",
		Short: "Record daily shipment counts and review monthly totals",
		Long: `shiplog keeps one shipment count per calendar day and derives the
daily series and the twelve monthly totals of a year from it.

Configuration comes from the environment (a .env file is read if present),
see STORE_BACKEND, DATA_DIR, SQLITE_DB_PATH, RESET_PASSPHRASE and EXPORT_DIR.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
	}
	root.PersistentFlags().IntVar(&a.year, "year", 0, "Year for monthly totals (default: current year)")

	root.AddCommand(
		newSaveCmd(a),
		newModifyCmd(a),
		newResetCmd(a),
		newSelectCmd(a),
		newShowCmd(a),
		newExportCmd(a),
		newServeCmd(a),
	)
	return root, a
}

func (a *app) open(ctx context.Context) error {
	if err := cli.LoadEnvFile(); err != nil {
		return err
	}
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cli.SetupLogger(cfg.LogLevel)

	s, err := cli.OpenStore(ctx, a.logger, cfg)
	if err != nil {
		return err
	}
	a.store = s
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// reportYear is the --year flag, or the current year when unset.
func (a *app) reportYear() int {
	if a.year > 0 {
		return a.year
	}
	return a.now().Year()
}

// resolveDate accepts "today" besides YYYY-MM-DD.
func (a *app) resolveDate(arg string) string {
	if strings.EqualFold(arg, "today") {
		return core.Today(a.now()).Key()
	}
	return arg
}

func (a *app) editor(in io.Reader, out, errOut io.Writer) *editor.Editor {
	return editor.New(a.store, editor.NewLinePrompter(in, out), notify.NewTerminal(errOut), editor.Config{
		Passphrase: a.cfg.ResetPassphrase,
		NoticeTTL:  a.cfg.NoticeTTL,
		Now:        a.now,
		Logger:     a.logger.WithComponent(applog.ComponentEditor).Logger,
		Refresh: func(ctx context.Context, m core.Mapping) {
			if err := a.renderCharts(out, m); err != nil {
				a.logger.WarnContext(ctx, "Chart refresh failed", applog.FieldError, err)
			}
		},
	})
}

func (a *app) renderCharts(w io.Writer, m core.Mapping) error {
	r := chart.NewRenderer()
	if err := r.Render(w, chart.DailySeries(m)); err != nil {
		return err
	}
	year := a.reportYear()
	return r.Render(w, chart.MonthlySeries(core.MonthlyTotalsFor(m, year), year))
}

// Package editor applies the mutation policy around the shipment store.
//
// Two write intents are kept apart on purpose. Save writes unconditionally
// and silently replaces an existing record for the date. Modify asks the
// user to confirm, naming the old and the new value, and skips the write
// when nothing changes. Reset is gated by a shared passphrase and a second
// confirmation.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"shiplog/internal/core"
	applog "shiplog/internal/log"
	"shiplog/internal/notify"
)

// DefaultPassphrase gates Reset unless configured otherwise.
const DefaultPassphrase = "8179666"

var (
	ErrFutureDate     = errors.New("date is in the future")
	ErrAuthentication = errors.New("wrong reset passphrase")
	// ErrNoRecord means Modify was asked to change a day with no record;
	// such a day can only be saved.
	ErrNoRecord = errors.New("no record to modify")
)

// ValidationError reports unusable input. Nothing was written.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

type (
	// Store is the persistence the editor mutates.
	Store interface {
		Load(ctx context.Context) core.Mapping
		Upsert(ctx context.Context, date core.Date, count int) error
		Clear(ctx context.Context) error
	}

	// RefreshFunc is called with the fresh mapping after every successful
	// mutation, to recompute and redraw derived views.
	RefreshFunc func(ctx context.Context, m core.Mapping)
)

type Config struct {
	Passphrase string
	NoticeTTL  time.Duration
	Refresh    RefreshFunc
	Now        func() time.Time
	Logger     *slog.Logger
}

type Editor struct {
	store      Store
	prompt     Prompter
	notifier   notify.Notifier
	passphrase string
	ttl        time.Duration
	refresh    RefreshFunc
	now        func() time.Time
	log        *slog.Logger
}

func New(store Store, prompt Prompter, notifier notify.Notifier, cfg Config) *Editor {
	if cfg.Passphrase == "" {
		cfg.Passphrase = DefaultPassphrase
	}
	if cfg.NoticeTTL <= 0 {
		cfg.NoticeTTL = notify.DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if notifier == nil {
		notifier = notify.Discard
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default().With(applog.FieldComponent, applog.ComponentEditor)
	}
	return &Editor{
		store:      store,
		prompt:     prompt,
		notifier:   notifier,
		passphrase: cfg.Passphrase,
		ttl:        cfg.NoticeTTL,
		refresh:    cfg.Refresh,
		now:        cfg.Now,
		log:        cfg.Logger,
	}
}

// Selection is the state of the form once a date is picked.
type Selection struct {
	Date     core.Date
	Prior    int
	HasPrior bool
}

// CanModify reports whether Modify applies: there is a record to change.
func (s Selection) CanModify() bool { return s.HasPrior }

// Select picks the date being edited and preloads any existing count.
func (e *Editor) Select(ctx context.Context, date string) (Selection, error) {
	d, err := e.checkDate(date)
	if err != nil {
		e.fail(err)
		return Selection{}, err
	}

	sel := Selection{Date: d}
	sel.Prior, sel.HasPrior = e.store.Load(ctx)[d.Key()]
	if sel.HasPrior {
		e.notify(notify.Info, fmt.Sprintf("Loaded %d shipments recorded on %s, you can modify them", sel.Prior, d))
	}
	return sel, nil
}

// Save writes countInput for date, overwriting any existing record
// without asking.
func (e *Editor) Save(ctx context.Context, date, countInput string) error {
	d, count, err := e.parse(date, countInput)
	if err != nil {
		e.fail(err)
		return err
	}

	if err := e.store.Upsert(ctx, d, count); err != nil {
		e.log.ErrorContext(ctx, "Failed to save shipment record",
			applog.FieldOperation, applog.OpSave, applog.FieldDate, d.Key(), applog.FieldCount, count, applog.FieldError, err)
		e.notify(notify.Error, "Save failed, please retry")
		return fmt.Errorf("save %s: %w", d, err)
	}

	e.changed(ctx)
	e.notify(notify.Success, "Saved")
	return nil
}

// Modify replaces the count for date after the user confirms the change.
// Submitting the stored value again writes nothing. A day without a
// record fails with ErrNoRecord before anything is asked.
func (e *Editor) Modify(ctx context.Context, date, countInput string) (Outcome, error) {
	d, count, err := e.parse(date, countInput)
	if err != nil {
		e.fail(err)
		return 0, err
	}

	prev, had := e.store.Load(ctx)[d.Key()]
	if !had {
		e.notify(notify.Error, fmt.Sprintf("Nothing recorded on %s yet, save it first", d))
		return 0, ErrNoRecord
	}
	if prev == count {
		e.notify(notify.Info, "No change")
		return Unchanged, nil
	}

	answer, err := e.prompt.Confirm(ctx, fmt.Sprintf("Change shipments on %s from %d to %d?", d, prev, count))
	if err != nil {
		return 0, fmt.Errorf("confirm modify: %w", err)
	}
	if answer != Yes {
		return answer.outcome(), nil
	}

	if err := e.store.Upsert(ctx, d, count); err != nil {
		e.log.ErrorContext(ctx, "Failed to modify shipment record",
			applog.FieldOperation, applog.OpModify, applog.FieldDate, d.Key(), "from", prev, "to", count, applog.FieldError, err)
		e.notify(notify.Error, "Modify failed, please retry")
		return 0, fmt.Errorf("modify %s: %w", d, err)
	}

	e.changed(ctx)
	e.notify(notify.Success, "Record updated")
	return Written, nil
}

// Reset clears every record once the passphrase matches and the user
// confirms. A cancelled passphrase prompt is a silent no-op.
func (e *Editor) Reset(ctx context.Context) (Outcome, error) {
	pass, answer, err := e.prompt.Passphrase(ctx, "Reset passphrase:")
	if err != nil {
		return 0, fmt.Errorf("read passphrase: %w", err)
	}
	if answer != Yes {
		return Cancelled, nil
	}
	if pass != e.passphrase {
		e.log.WarnContext(ctx, "Reset refused, wrong passphrase", applog.FieldOperation, applog.OpReset)
		e.notify(notify.Error, "Wrong passphrase")
		return 0, ErrAuthentication
	}

	answer, err = e.prompt.Confirm(ctx, "Clear ALL shipment data? This cannot be undone.")
	if err != nil {
		return 0, fmt.Errorf("confirm reset: %w", err)
	}
	if answer != Yes {
		return answer.outcome(), nil
	}

	if err := e.store.Clear(ctx); err != nil {
		e.log.ErrorContext(ctx, "Failed to reset shipment data", applog.FieldOperation, applog.OpReset, applog.FieldError, err)
		e.notify(notify.Error, "Reset failed, please retry")
		return 0, fmt.Errorf("reset: %w", err)
	}

	e.changed(ctx)
	e.notify(notify.Success, "All data has been reset")
	return Written, nil
}

func (e *Editor) parse(date, countInput string) (core.Date, int, error) {
	d, err := e.checkDate(date)
	if err != nil {
		return core.Date{}, 0, err
	}
	count, err := core.ParseCount(countInput)
	if err != nil {
		return core.Date{}, 0, &ValidationError{Field: "count", Err: err}
	}
	return d, count, nil
}

func (e *Editor) checkDate(date string) (core.Date, error) {
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Date{}, &ValidationError{Field: "date", Err: err}
	}
	if d.After(core.Today(e.now()).Time) {
		return core.Date{}, &ValidationError{Field: "date", Err: ErrFutureDate}
	}
	return d, nil
}

func (e *Editor) changed(ctx context.Context) {
	if e.refresh != nil {
		e.refresh(ctx, e.store.Load(ctx))
	}
}

func (e *Editor) fail(err error) {
	var msg string
	switch {
	case errors.Is(err, core.ErrEmptyCount):
		msg = "Please enter the number of shipments"
	case errors.Is(err, core.ErrInvalidCount):
		msg = "The number of shipments must be a whole number"
	case errors.Is(err, ErrFutureDate):
		msg = "Future dates cannot be selected"
	default:
		msg = "Please pick a valid date"
	}
	e.notify(notify.Error, msg)
}

func (e *Editor) notify(level notify.Level, msg string) {
	e.notifier.Notify(notify.Notice{Level: level, Message: msg, At: e.now(), TTL: e.ttl})
}

package editor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shiplog/internal/core"
	applog "shiplog/internal/log"
	"shiplog/internal/notify"
	"shiplog/internal/store"
	"shiplog/internal/store/memory"
)

type scriptedPrompter struct {
	answers   []Answer
	passwords []string
	questions []string
}

func (p *scriptedPrompter) next() Answer {
	if len(p.answers) == 0 {
		return Cancel
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a
}

func (p *scriptedPrompter) Confirm(_ context.Context, question string) (Answer, error) {
	p.questions = append(p.questions, question)
	return p.next(), nil
}

func (p *scriptedPrompter) Passphrase(_ context.Context, label string) (string, Answer, error) {
	p.questions = append(p.questions, label)
	if len(p.passwords) == 0 {
		return "", Cancel, nil
	}
	pw := p.passwords[0]
	p.passwords = p.passwords[1:]
	return pw, Yes, nil
}

type fixture struct {
	store     *store.Store
	prompt    *scriptedPrompter
	notices   *notify.Recorder
	refreshes int
	editor    *Editor
}

var fixedNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:   store.New(memory.New()),
		prompt:  &scriptedPrompter{},
		notices: notify.NewRecorder(),
	}
	f.editor = New(f.store, f.prompt, f.notices, Config{
		Now:     func() time.Time { return fixedNow },
		Refresh: func(context.Context, core.Mapping) { f.refreshes++ },
	})
	return f
}

func (f *fixture) lastLevel(t *testing.T) notify.Level {
	t.Helper()
	n, ok := f.notices.Last()
	require.True(t, ok, "expected a notice")
	return n.Level
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.editor.Save(ctx, "2025-03-01", "5"))
	require.Equal(t, core.Mapping{"2025-03-01": 5}, f.store.Load(ctx))
	require.Equal(t, notify.Success, f.lastLevel(t))
	require.Equal(t, 1, f.refreshes)

	// repeated save is a single save
	require.NoError(t, f.editor.Save(ctx, "2025-03-01", "5"))
	require.Equal(t, core.Mapping{"2025-03-01": 5}, f.store.Load(ctx))
}

func TestSaveOverwritesWithoutConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.editor.Save(ctx, "2025-03-01", "5"))
	require.NoError(t, f.editor.Save(ctx, "2025-03-01", "9"))
	require.Equal(t, 9, f.store.Load(ctx)["2025-03-01"])
	require.Empty(t, f.prompt.questions)
}

func TestSaveValidation(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name  string
		date  string
		count string
		want  error
	}{
		{"empty count", "2025-03-01", "", core.ErrEmptyCount},
		{"non numeric", "2025-03-01", "abc", core.ErrInvalidCount},
		{"negative", "2025-03-01", "-2", core.ErrInvalidCount},
		{"above max", "2025-03-01", "3458764513820540928", core.ErrInvalidCount},
		{"bad date", "2025-02-30", "1", core.ErrInvalidDate},
		{"future date", "2025-06-16", "1", ErrFutureDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			err := f.editor.Save(ctx, tc.date, tc.count)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.ErrorIs(t, err, tc.want)
			require.Empty(t, f.store.Load(ctx))
			require.Equal(t, notify.Error, f.lastLevel(t))
			require.Zero(t, f.refreshes)
		})
	}
}

func TestSaveToday(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.editor.Save(context.Background(), "2025-06-15", "0"))
}

func TestModifySameValueIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.editor.Save(ctx, "2025-03-01", "5"))
	refreshes := f.refreshes

	out, err := f.editor.Modify(ctx, "2025-03-01", " 5 ")
	require.NoError(t, err)
	require.Equal(t, Unchanged, out)
	require.Empty(t, f.prompt.questions, "no confirmation for a no-op")
	require.Equal(t, notify.Info, f.lastLevel(t))
	require.Equal(t, refreshes, f.refreshes)
}

func TestModifyConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.editor.Save(ctx, "2025-03-01", "5"))
		f.prompt.answers = []Answer{Yes}

		out, err := f.editor.Modify(ctx, "2025-03-01", "8")
		require.NoError(t, err)
		require.Equal(t, Written, out)
		require.Equal(t, 8, f.store.Load(ctx)["2025-03-01"])
		require.Len(t, f.prompt.questions, 1)
		require.True(t, strings.Contains(f.prompt.questions[0], "from 5 to 8"), f.prompt.questions[0])
	})

	t.Run("declined", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.editor.Save(ctx, "2025-03-01", "5"))
		f.prompt.answers = []Answer{No}

		out, err := f.editor.Modify(ctx, "2025-03-01", "8")
		require.NoError(t, err)
		require.Equal(t, Declined, out)
		require.Equal(t, 5, f.store.Load(ctx)["2025-03-01"])
	})

	t.Run("cancelled", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.editor.Save(ctx, "2025-03-01", "5"))
		f.prompt.answers = []Answer{Cancel}

		out, err := f.editor.Modify(ctx, "2025-03-01", "8")
		require.NoError(t, err)
		require.Equal(t, Cancelled, out)
		require.Equal(t, 5, f.store.Load(ctx)["2025-03-01"])
	})

	t.Run("no prior record", func(t *testing.T) {
		f := newFixture(t)
		f.prompt.answers = []Answer{Yes}

		_, err := f.editor.Modify(ctx, "2025-03-01", "3")
		require.ErrorIs(t, err, ErrNoRecord)
		require.Empty(t, f.prompt.questions, "nothing to confirm without a record")
		require.Empty(t, f.store.Load(ctx))
		require.Equal(t, notify.Error, f.lastLevel(t))
		require.Zero(t, f.refreshes)

		sel, err := f.editor.Select(ctx, "2025-03-01")
		require.NoError(t, err)
		require.False(t, sel.CanModify())
	})
}

func TestModifyValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.editor.Modify(context.Background(), "2025-03-01", "")
	require.ErrorIs(t, err, core.ErrEmptyCount)
	require.Empty(t, f.prompt.questions)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	seed := func(t *testing.T, f *fixture) {
		require.NoError(t, f.editor.Save(ctx, "2025-03-01", "5"))
		require.NoError(t, f.editor.Save(ctx, "2025-03-02", "10"))
	}

	t.Run("wrong passphrase", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f)
		f.prompt.passwords = []string{"1234"}

		_, err := f.editor.Reset(ctx)
		require.ErrorIs(t, err, ErrAuthentication)
		require.Len(t, f.store.Load(ctx), 2)
		require.Equal(t, notify.Error, f.lastLevel(t))
	})

	t.Run("cancelled passphrase is silent", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f)
		before := len(f.notices.All())

		out, err := f.editor.Reset(ctx)
		require.NoError(t, err)
		require.Equal(t, Cancelled, out)
		require.Len(t, f.store.Load(ctx), 2)
		require.Len(t, f.notices.All(), before)
	})

	t.Run("declined confirmation", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f)
		f.prompt.passwords = []string{DefaultPassphrase}
		f.prompt.answers = []Answer{No}

		out, err := f.editor.Reset(ctx)
		require.NoError(t, err)
		require.Equal(t, Declined, out)
		require.Len(t, f.store.Load(ctx), 2)
	})

	t.Run("confirmed", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f)
		f.prompt.passwords = []string{DefaultPassphrase}
		f.prompt.answers = []Answer{Yes}

		out, err := f.editor.Reset(ctx)
		require.NoError(t, err)
		require.Equal(t, Written, out)
		require.Empty(t, f.store.Load(ctx))
		require.Equal(t, notify.Success, f.lastLevel(t))
	})
}

func TestWrongPassphraseLogsUnderEditorComponent(t *testing.T) {
	var buf bytes.Buffer
	root := applog.New(applog.Config{Level: applog.ParseLevel("debug"), Output: &buf})
	prompt := &scriptedPrompter{passwords: []string{"nope"}}
	e := New(store.New(memory.New()), prompt, notify.NewRecorder(), Config{
		Logger: root.WithComponent(applog.ComponentEditor).Logger,
	})

	_, err := e.Reset(context.Background())
	require.ErrorIs(t, err, ErrAuthentication)

	out := buf.String()
	require.Contains(t, out, "component=editor")
	require.Contains(t, out, "operation=reset")
	require.NotContains(t, out, "component=app")
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.editor.Save(ctx, "2025-03-01", "5"))

	sel, err := f.editor.Select(ctx, "2025-03-01")
	require.NoError(t, err)
	require.True(t, sel.CanModify())
	require.Equal(t, 5, sel.Prior)
	require.Equal(t, notify.Info, f.lastLevel(t))

	sel, err = f.editor.Select(ctx, "2025-03-02")
	require.NoError(t, err)
	require.False(t, sel.CanModify())

	_, err = f.editor.Select(ctx, "2025-07-01")
	require.ErrorIs(t, err, ErrFutureDate)
}

type brokenStore struct{ *store.Store }

func (brokenStore) Upsert(context.Context, core.Date, int) error { return errors.New("disk full") }

func TestSaveBackendFailure(t *testing.T) {
	ctx := context.Background()
	notices := notify.NewRecorder()
	e := New(brokenStore{store.New(memory.New())}, &scriptedPrompter{}, notices, Config{
		Now: func() time.Time { return fixedNow },
	})

	err := e.Save(ctx, "2025-03-01", "5")
	require.Error(t, err)
	var verr *ValidationError
	require.False(t, errors.As(err, &verr))
	n, _ := notices.Last()
	require.Equal(t, notify.Error, n.Level)
}

// Walks the daily flow: two saves, a no-op modify, then a confirmed modify.
func TestEditSessionTotals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.editor.Save(ctx, "2025-03-01", "5"))
	require.NoError(t, f.editor.Save(ctx, "2025-03-02", "10"))
	require.Equal(t, 15, core.MonthlyTotalsFor(f.store.Load(ctx), 2025)[2])

	out, err := f.editor.Modify(ctx, "2025-03-01", "5")
	require.NoError(t, err)
	require.Equal(t, Unchanged, out)

	f.prompt.answers = []Answer{Yes}
	out, err = f.editor.Modify(ctx, "2025-03-01", "8")
	require.NoError(t, err)
	require.Equal(t, Written, out)
	require.Equal(t, 18, core.MonthlyTotalsFor(f.store.Load(ctx), 2025)[2])
}

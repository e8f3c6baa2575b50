package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// SheetsConfig selects the target spreadsheet and service account.
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsJSON string
	CredentialsFile string
	Logger          *slog.Logger
}

// SheetsWriter publishes workbooks to a Google spreadsheet, one tab per
// sheet. The monthly tab is prefixed with the year ("2025 Monthly").
type SheetsWriter struct {
	svc           *gsheet.Service
	spreadsheetID string
	log           *slog.Logger
}

var _ Exporter = (*SheetsWriter)(nil)

// NewSheetsWriter creates a writer authenticated with service account
// credentials, given inline or as a file path.
func NewSheetsWriter(ctx context.Context, cfg SheetsConfig) (*SheetsWriter, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	var credentialsJSON []byte
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		credentialsJSON = []byte(cfg.CredentialsJSON)
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}

	sw, err := NewSheetsWriterWithOptions(ctx, cfg.SpreadsheetID,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, err
	}
	sw.log = exportLogger(cfg.Logger)
	return sw, nil
}

// NewSheetsWriterWithOptions creates a writer with explicit client options.
func NewSheetsWriterWithOptions(ctx context.Context, spreadsheetID string, opts ...goption.ClientOption) (*SheetsWriter, error) {
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsWriter{svc: svc, spreadsheetID: spreadsheetID, log: exportLogger(nil)}, nil
}

func (s *SheetsWriter) Export(ctx context.Context, wb Workbook) (string, error) {
	sheets := wb.Sheets()
	for i := range sheets {
		if sheets[i].Name == MonthlySheet {
			sheets[i].Name = yearPrefixedName(sheets[i].Name, wb.Year)
		}
	}

	names := make([]string, len(sheets))
	for i, sh := range sheets {
		names[i] = sh.Name
	}
	if err := s.ensureTabs(ctx, names); err != nil {
		return "", err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, sh := range sheets {
		g.Go(func() error {
			return s.replaceValues(gctx, sh)
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	s.log.InfoContext(ctx, "Exported workbook to Google Sheets",
		"spreadsheet_id", s.spreadsheetID, "tabs", names, "daily_rows", len(wb.Daily))
	return "https://docs.google.com/spreadsheets/d/" + s.spreadsheetID, nil
}

// ensureTabs adds the tabs that do not exist yet.
func (s *SheetsWriter) ensureTabs(ctx context.Context, names []string) error {
	ss, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet %s: %w", s.spreadsheetID, err)
	}
	existing := map[string]bool{}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			existing[sh.Properties.Title] = true
		}
	}

	var reqs []*gsheet.Request
	for _, name := range names {
		if existing[name] {
			continue
		}
		reqs = append(reqs, &gsheet.Request{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: name}},
		})
	}
	if len(reqs) == 0 {
		return nil
	}

	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{Requests: reqs}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add tabs: %w", err)
	}
	return nil
}

func (s *SheetsWriter) replaceValues(ctx context.Context, sh Sheet) error {
	all := fmt.Sprintf("'%s'!A:B", sh.Name)
	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, all, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", all, err)
	}

	rng := fmt.Sprintf("'%s'!A1", sh.Name)
	vr := &gsheet.ValueRange{Values: sh.Rows}
	if _, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

// yearPrefixedName returns "<year> <base>" unless base already starts
// with a year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}

// Package export builds the spreadsheet handed to users: one sheet with
// every recorded day, one with the twelve monthly totals of a year.
package export

import (
	"context"
	"log/slog"
	"time"

	"shiplog/internal/core"
	applog "shiplog/internal/log"
)

const (
	DailySheet   = "Daily"
	MonthlySheet = "Monthly"

	// DefaultPrefix starts every export file name.
	DefaultPrefix = "shipments"
)

type (
	DailyRow struct {
		Date  string
		Count int
	}

	MonthlyRow struct {
		Month string
		Total int
	}

	Workbook struct {
		Year     int
		FileName string
		Daily    []DailyRow   // ascending by date
		Monthly  []MonthlyRow // January first, always 12 rows
	}

	// Sheet is a header row followed by data rows, ready for a writer.
	Sheet struct {
		Name string
		Rows [][]any
	}

	// Exporter delivers a workbook and reports where it went.
	Exporter interface {
		Export(ctx context.Context, wb Workbook) (location string, err error)
	}
)

// Build derives the workbook for year from the mapping.
func Build(m core.Mapping, year int, now time.Time, prefix string) Workbook {
	daily := core.Daily(m)
	wb := Workbook{
		Year:     year,
		FileName: FileName(prefix, now),
		Daily:    make([]DailyRow, len(daily.Labels)),
		Monthly:  make([]MonthlyRow, 12),
	}
	for i, date := range daily.Labels {
		wb.Daily[i] = DailyRow{Date: date, Count: daily.Values[i]}
	}
	totals := core.MonthlyTotalsFor(m, year)
	for i, total := range totals {
		wb.Monthly[i] = MonthlyRow{Month: core.MonthLabels[i], Total: total}
	}
	return wb
}

// FileName embeds the export date: shipments_2025-03-01.xlsx.
func FileName(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + "_" + core.Today(now).Key() + ".xlsx"
}

// Sheets lays the workbook out as two tables with headers.
func (wb Workbook) Sheets() []Sheet {
	daily := Sheet{Name: DailySheet, Rows: [][]any{{"Date", "Shipments"}}}
	for _, r := range wb.Daily {
		daily.Rows = append(daily.Rows, []any{r.Date, r.Count})
	}
	monthly := Sheet{Name: MonthlySheet, Rows: [][]any{{"Month", "Total"}}}
	for _, r := range wb.Monthly {
		monthly.Rows = append(monthly.Rows, []any{r.Month, r.Total})
	}
	return []Sheet{daily, monthly}
}

func exportLogger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default().With(applog.FieldComponent, applog.ComponentExport)
}

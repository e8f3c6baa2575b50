// Package chart turns derived shipment data into plot inputs and draws
// them in a terminal.
package chart

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"shiplog/internal/core"
)

// Series is what a renderer consumes: labels and a parallel value list.
type Series struct {
	Title  string   `json:"title"`
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// DailySeries is the line chart of every recorded day.
func DailySeries(m core.Mapping) Series {
	d := core.Daily(m)
	return Series{Title: "Daily shipments", Labels: d.Labels, Values: d.Values}
}

// MonthlySeries is the bar chart of one year's totals.
func MonthlySeries(t core.MonthlyTotals, year int) Series {
	s := Series{
		Title:  fmt.Sprintf("Monthly shipments %d", year),
		Labels: make([]string, len(t)),
		Values: make([]int, len(t)),
	}
	for i := range t {
		s.Labels[i] = core.MonthLabels[i]
		s.Values[i] = t[i]
	}
	return s
}

// Orange palette shared by both charts.
var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e9ecef")).Bold(true).MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#adb5bd"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff9f40"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e9ecef"))
)

// Renderer draws horizontal bar charts.
type Renderer struct {
	// Width is the length of the longest bar in cells.
	Width int
}

func NewRenderer() *Renderer {
	return &Renderer{Width: 40}
}

// Render writes s as one bar per label, scaled to the largest value.
func (r *Renderer) Render(w io.Writer, s Series) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(s.Title))
	b.WriteString("\n")

	if len(s.Labels) == 0 {
		b.WriteString(labelStyle.Render("no data"))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	labelWidth, maxValue := 0, 0
	for i, l := range s.Labels {
		labelWidth = max(labelWidth, lipgloss.Width(l))
		maxValue = max(maxValue, s.Values[i])
	}

	for i, l := range s.Labels {
		v := s.Values[i]
		b.WriteString(labelStyle.Width(labelWidth).Render(l))
		b.WriteString(" ")
		b.WriteString(barStyle.Render(strings.Repeat("█", barLength(v, maxValue, r.Width))))
		b.WriteString(" ")
		b.WriteString(valueStyle.Render(fmt.Sprint(v)))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func barLength(v, maxValue, width int) int {
	if v <= 0 || maxValue <= 0 || width <= 0 {
		return 0
	}
	if v >= maxValue {
		return width
	}
	// float64 so v*width cannot overflow for stored values of any size
	n := int(float64(v) * float64(width) / float64(maxValue))
	if n == 0 {
		// keep tiny non-zero values visible
		n = 1
	}
	return n
}

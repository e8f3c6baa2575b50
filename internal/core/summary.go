package core

import "sort"

// MonthlyTotals holds per-month sums, index 0 is January.
type MonthlyTotals [12]int

// MonthLabels are the fixed labels of the monthly bar chart and export.
var MonthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// DailySeries is the line chart input: ascending dates and their counts.
type DailySeries struct {
	Labels []string
	Values []int
}

// MonthlyTotalsFor sums the counts of every record dated in year.
// Records from other years and keys that are not dates are ignored.
func MonthlyTotalsFor(m Mapping, year int) MonthlyTotals {
	var totals MonthlyTotals
	for key, count := range m {
		d, err := ParseDate(key)
		if err != nil || d.Year() != year {
			continue
		}
		totals[d.Month()-1] += count
	}
	return totals
}

// Sum returns the yearly total.
func (t MonthlyTotals) Sum() int {
	sum := 0
	for _, v := range t {
		sum += v
	}
	return sum
}

// Daily orders the mapping by date.
func Daily(m Mapping) DailySeries {
	keys := make([]string, 0, len(m))
	for key := range m {
		if _, err := ParseDate(key); err != nil {
			continue
		}
		keys = append(keys, key)
	}
	// YYYY-MM-DD sorts lexically in date order
	sort.Strings(keys)

	s := DailySeries{
		Labels: keys,
		Values: make([]int, len(keys)),
	}
	for i, key := range keys {
		s.Values[i] = m[key]
	}
	return s
}

// Records returns the mapping as records sorted by date.
func (m Mapping) Records() []Record {
	s := Daily(m)
	out := make([]Record, len(s.Labels))
	for i, key := range s.Labels {
		d, _ := ParseDate(key)
		out[i] = Record{Date: d, Count: s.Values[i]}
	}
	return out
}

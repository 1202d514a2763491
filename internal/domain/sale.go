package domain

import "time"

// MonthKeyLayout is the time layout of the labels used by MonthlyTotals
const MonthKeyLayout = "2006-01"

// Sale is a single sales record. CustomerName and ProductName are read-only:
// they are resolved by join when a sale is loaded and are never written back.
// A CustomerID or ProductID of zero means the referenced row no longer exists.
type Sale struct {
	ID           int64     `json:"id" db:"id"`
	SaleDate     time.Time `json:"data_venda" db:"data_venda"`
	CustomerID   int64     `json:"cliente_id" db:"cliente_id"`
	ProductID    int64     `json:"produto_id" db:"produto_id"`
	Quantity     int       `json:"quantidade" db:"quantidade"`
	TotalValue   float64   `json:"valor_total" db:"valor_total"`
	CustomerName string    `json:"cliente_nome,omitempty" db:"cliente_nome"`
	ProductName  string    `json:"produto_nome,omitempty" db:"produto_nome"`
}

// MonthlyTotals maps a "YYYY-MM" label to the summed sale value of that month.
// Months without sales have no entry.
type MonthlyTotals map[string]float64

// DateOf strips the clock from t, keeping its calendar day at midnight UTC
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthKey returns the MonthlyTotals label for t
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

// MonthsBefore returns the calendar date n months before t. When the target
// month is shorter than t's day, the result is clamped to its last day, so
// 31 March minus one month is the last day of February.
func MonthsBefore(t time.Time, n int) time.Time {
	y, m, d := t.Date()

	// Day 1 never overflows, so AddDate lands exactly on the target month
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -n, 0)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}

	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

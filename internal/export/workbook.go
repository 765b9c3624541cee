// Package export turns the ledger into the treasurer's report workbook.
package export

import (
	"time"

	"github.com/goodsign/monday"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

// Sheet names, in workbook order.
const (
	SheetAll         = "Semua Periode"
	SheetMonth       = "Per Bulan"
	SheetDate        = "Per Tanggal"
	SheetDescription = "Per Keterangan"
	SheetIncome      = "Penyumbang"
	SheetExpense     = "Pengeluaran"
)

var (
	columns          = []string{"Tanggal", "Keterangan", "Kategori", "Tipe", "Jumlah (IDR)"}
	columnsWithMonth = []string{"Tanggal", "Keterangan", "Kategori", "Bulan", "Tipe", "Jumlah (IDR)"}
)

type (
	// Workbook is a format-neutral spreadsheet: named sheets of rows.
	Workbook struct {
		Title  string  `json:"title"`
		Sheets []Sheet `json:"sheets"`
	}

	Sheet struct {
		Name    string          `json:"name"`
		Columns []string        `json:"columns"`
		Rows    [][]interface{} `json:"rows"`
	}
)

// Title returns the report file name for the given day.
func Title(day time.Time) string {
	return "Laporan_Keuangan_Musholla_Al_Qolam_" + day.Format(core.DateLayout)
}

// Build assembles the six report sheets from the full list. The month,
// date, description and category of f select the rows of the per-month,
// per-date and per-description sheets; an empty month or date falls back to
// the current one.
func Build(all []core.Transaction, f ledger.Filter, now time.Time) Workbook {
	month := f.Month
	if month == "" {
		month = now.Format(core.MonthLayout)
	}
	date := f.Date
	if date == "" {
		date = now.Format(core.DateLayout)
	}

	var income, expense []core.Transaction
	for _, t := range all {
		if t.Type == core.Income {
			income = append(income, t)
		} else {
			expense = append(expense, t)
		}
	}

	return Workbook{
		Title: Title(now),
		Sheets: []Sheet{
			newSheet(SheetAll, all, true),
			newSheet(SheetMonth, ledger.Apply(all, ledger.Filter{Mode: ledger.ModeMonth, Month: month}), true),
			newSheet(SheetDate, ledger.Apply(all, ledger.Filter{Mode: ledger.ModeDate, Date: date}), false),
			newSheet(SheetDescription, ledger.Apply(all, ledger.Filter{
				Mode:        ledger.ModeDescription,
				Description: f.Description,
				Category:    f.Category,
			}), false),
			newSheet(SheetIncome, income, false),
			newSheet(SheetExpense, expense, false),
		},
	}
}

// Sheet returns the named sheet, or nil.
func (w Workbook) Sheet(name string) *Sheet {
	for i := range w.Sheets {
		if w.Sheets[i].Name == name {
			return &w.Sheets[i]
		}
	}
	return nil
}

// Values returns the header followed by the rows, the layout spreadsheet
// APIs expect.
func (s Sheet) Values() [][]interface{} {
	out := make([][]interface{}, 0, len(s.Rows)+1)
	header := make([]interface{}, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = c
	}
	out = append(out, header)
	return append(out, s.Rows...)
}

func newSheet(name string, txs []core.Transaction, withMonth bool) Sheet {
	s := Sheet{Name: name, Columns: columns, Rows: make([][]interface{}, 0, len(txs))}
	if withMonth {
		s.Columns = columnsWithMonth
	}
	for _, t := range txs {
		row := []interface{}{LongDate(t.Date), t.Description, t.Category}
		if withMonth {
			row = append(row, MonthName(t.Date))
		}
		row = append(row, t.Type.Label(), t.Amount.Float64())
		s.Rows = append(s.Rows, row)
	}
	return s
}

// LongDate renders a stored date as "Jumat, 05/01/2024". Unparseable dates
// are returned unchanged.
func LongDate(date string) string {
	d, ok := core.ParseDate(date)
	if !ok {
		return date
	}
	return monday.Format(d, "Monday, 02/01/2006", monday.LocaleIdID)
}

// MonthName renders the month of a stored date as "Januari 2024".
func MonthName(date string) string {
	d, ok := core.ParseDate(date)
	if !ok {
		return ""
	}
	return monday.Format(d, "January 2006", monday.LocaleIdID)
}

package sheets

import (
	"context"
	"fmt"

	"ledger/internal/core"
	"ledger/internal/export"
)

// Ports for outbound spreadsheet adapters.
type (
	// WorkbookWriter publishes a report workbook and returns a reference to
	// it (a URL or an adapter-specific id).
	WorkbookWriter interface {
		WriteWorkbook(ctx context.Context, wb export.Workbook) (ref string, err error)
	}

	// LedgerMirror replaces a copy of the full ledger kept outside the store.
	LedgerMirror interface {
		MirrorLedger(ctx context.Context, txs []core.Transaction) error
	}
)

// MirrorColumns is the header row of the ledger mirror.
var MirrorColumns = []interface{}{"ID", "Tanggal", "Keterangan", "Kategori", "Tipe", "Jumlah (IDR)", "Dibuat"}

// MirrorValues lays out txs as rows below MirrorColumns.
func MirrorValues(txs []core.Transaction) [][]interface{} {
	out := make([][]interface{}, 0, len(txs)+1)
	out = append(out, MirrorColumns)
	for _, t := range txs {
		created := ""
		if !t.CreatedAt.IsZero() {
			created = t.CreatedAt.Format("2006-01-02 15:04:05")
		}
		out = append(out, []interface{}{
			fmt.Sprint(t.ID), t.Date, t.Description, t.Category, t.Type.Label(), t.Amount.Float64(), created,
		})
	}
	return out
}

package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/export"
	"ledger/internal/ledger"
)

func runCtl(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute(), out.String())
	return out.String()
}

func TestLedgerctl(t *testing.T) {
	t.Setenv("EXPORT_BACKEND", "memory")
	db := filepath.Join(t.TempDir(), "ledger.db")

	assert.Contains(t, runCtl(t, "migrate", "--db", db), "schema version 1 (dirty=false)")

	assert.Contains(t, runCtl(t, "seed", "--db", db, "--seed", "42"), "seeded 52 transactions")
	assert.Contains(t, runCtl(t, "seed", "--db", db), "nothing seeded")

	var v ledger.View
	require.NoError(t, json.Unmarshal([]byte(runCtl(t, "list", "--db", db, "--json")), &v))
	assert.Equal(t, 52, v.TotalCount)
	assert.Equal(t, 2, v.TotalPages)
	assert.Len(t, v.Items, 50)

	table := runCtl(t, "list", "--db", db, "--mode", "month", "--month", "2024-02", "--search", "listrik")
	assert.Contains(t, table, "Listrik Musholla")
	assert.Contains(t, table, "Rp 250.000")
	assert.Contains(t, table, "page 1/1, 1 transactions")

	donor := runCtl(t, "list", "--db", db, "--mode", "month", "--month", "2024-01", "--donor", "Saldo Awal Desember")
	assert.Contains(t, donor, "page 1/1, 1 transactions")
	assert.Contains(t, runCtl(t, "list", "--help"), "(month mode)")

	var wb export.Workbook
	require.NoError(t, json.Unmarshal([]byte(runCtl(t, "export", "--db", db, "--month", "2024-01", "--date", "2024-01-05")), &wb))
	require.Len(t, wb.Sheets, 6)
	assert.Equal(t, export.SheetAll, wb.Sheets[0].Name)

	assert.Contains(t, runCtl(t, "export", "--db", db, "--publish"), "mem:1")
}

func TestLedgerctlRejectsBadMode(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"list", "--db", filepath.Join(t.TempDir(), "x.db"), "--mode", "weekly"})
	assert.Error(t, root.Execute())
}

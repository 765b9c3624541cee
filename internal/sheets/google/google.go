package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"ledger/internal/core"
	"ledger/internal/export"
	ports "ledger/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const defaultMirrorSheet = "Ledger"

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	mirrorSheet   string
}

// Ensure interface conformance
var (
	_ ports.WorkbookWriter = (*Client)(nil)
	_ ports.LedgerMirror   = (*Client)(nil)
)

// Config selects the mirror spreadsheet and the service account used for
// every call. CredentialsJSON wins over CredentialsFile.
type Config struct {
	SpreadsheetID   string
	MirrorSheet     string
	CredentialsJSON string
	CredentialsFile string
}

// ConfigFromEnv reads GOOGLE_SPREADSHEET_ID, GOOGLE_MIRROR_SHEET_NAME and the
// service account from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE
// or GOOGLE_APPLICATION_CREDENTIALS.
func ConfigFromEnv() Config {
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	return Config{
		SpreadsheetID:   strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID")),
		MirrorSheet:     strings.TrimSpace(os.Getenv("GOOGLE_MIRROR_SHEET_NAME")),
		CredentialsJSON: strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")),
		CredentialsFile: file,
	}
}

// NewFromEnv creates a Sheets client from ConfigFromEnv.
func NewFromEnv(ctx context.Context) (*Client, error) {
	return New(ctx, ConfigFromEnv())
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, cfg.SpreadsheetID, cfg.MirrorSheet), nil
}

// NewWithService wraps an already configured service.
func NewWithService(svc *gsheet.Service, spreadsheetID, mirrorSheet string) *Client {
	if mirrorSheet == "" {
		mirrorSheet = defaultMirrorSheet
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, mirrorSheet: mirrorSheet}
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	var credentialsJSON []byte
	switch {
	case cfg.CredentialsJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(cfg.CredentialsJSON)
	case cfg.CredentialsFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", cfg.CredentialsFile)
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteWorkbook creates a new spreadsheet holding one tab per sheet and
// returns its URL.
func (c *Client) WriteWorkbook(ctx context.Context, wb export.Workbook) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	tabs := make([]*gsheet.Sheet, 0, len(wb.Sheets))
	for _, s := range wb.Sheets {
		tabs = append(tabs, &gsheet.Sheet{Properties: &gsheet.SheetProperties{Title: s.Name}})
	}
	created, err := c.svc.Spreadsheets.Create(&gsheet.Spreadsheet{
		Properties: &gsheet.SpreadsheetProperties{Title: wb.Title, Locale: "id_ID"},
		Sheets:     tabs,
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create spreadsheet %s: %w", wb.Title, err)
	}

	data := make([]*gsheet.ValueRange, 0, len(wb.Sheets))
	for _, s := range wb.Sheets {
		data = append(data, &gsheet.ValueRange{Range: a1(s.Name, "A1"), Values: s.Values()})
	}
	_, err = c.svc.Spreadsheets.Values.BatchUpdate(created.SpreadsheetId, &gsheet.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("write workbook %s: %w", created.SpreadsheetId, err)
	}

	slog.InfoContext(ctx, "Workbook exported to Google Sheets",
		"spreadsheet_id", created.SpreadsheetId,
		"sheets", len(wb.Sheets))

	if created.SpreadsheetUrl != "" {
		return created.SpreadsheetUrl, nil
	}
	return created.SpreadsheetId, nil
}

// MirrorLedger clears the mirror tab and rewrites it with txs.
func (c *Client) MirrorLedger(ctx context.Context, txs []core.Transaction) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, a1(c.mirrorSheet, "A:G"), &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", c.mirrorSheet, err)
	}

	vr := &gsheet.ValueRange{Values: ports.MirrorValues(txs)}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, a1(c.mirrorSheet, "A1"), vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update sheet %s: %w", c.mirrorSheet, err)
	}
	return nil
}

// a1 builds an A1 range, quoting the sheet name.
func a1(sheet, cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(sheet, "'", "''"), cells)
}

package backend

import (
	"context"
	"fmt"
	"log/slog"

	gsheet "ledger/internal/sheets/google"
	"ledger/internal/sheets/memory"
)

var _ Factory = (*DefaultFactory)(nil)

type DefaultFactory struct {
	logger *slog.Logger
	// sheets builds the Google client; replaced in tests.
	sheets func(ctx context.Context, cfg gsheet.Config) (Backend, error)
}

func NewFactory(logger *slog.Logger) *DefaultFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
		sheets: func(ctx context.Context, cfg gsheet.Config) (Backend, error) {
			return gsheet.New(ctx, cfg)
		},
	}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SheetsBackend:
		cli, err := f.sheets(ctx, gsheet.Config{
			SpreadsheetID:   config.GoogleSpreadsheetID,
			MirrorSheet:     config.GoogleMirrorSheetName,
			CredentialsJSON: config.GoogleServiceAccountJSON,
			CredentialsFile: config.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Initialized Google Sheets export backend",
			"spreadsheet_id", config.GoogleSpreadsheetID,
			"mirror_sheet", config.GoogleMirrorSheetName)
		return &BackendResult{Backend: cli}, nil
	default:
		f.logger.Info("Initialized in-memory export backend")
		return &BackendResult{Backend: memory.New()}, nil
	}
}

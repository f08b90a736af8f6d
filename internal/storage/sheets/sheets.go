// Package sheets persists transactions to a Google Sheets worksheet.
package sheets

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/moneypipe/moneypipe/internal/storage"
)

// hashColumn is the A1 range of the hash column, the 7th of the shared
// header schema.
const hashColumn = "G2:G"

// Config holds the Google Sheets backend settings.
type Config struct {
	SpreadsheetID       string
	WorksheetName       string
	ServiceAccountEmail string
	ServiceAccountKey   string
}

// Backend appends transaction rows to one worksheet of a spreadsheet,
// creating the worksheet with the shared header row when absent.
type Backend struct {
	cfg Config
	log zerolog.Logger

	svc *gsheets.Service
}

// New creates a Google Sheets backend. The connection is established in Init.
func New(cfg Config, log zerolog.Logger) *Backend {
	return &Backend{cfg: cfg, log: log}
}

// Label implements storage.Backend.
func (b *Backend) Label() string { return "Google Sheets" }

// Target implements storage.Backend.
func (b *Backend) Target() string { return b.cfg.WorksheetName }

// CanSave reports whether service-account credentials are configured.
func (b *Backend) CanSave() bool {
	return b.cfg.SpreadsheetID != "" &&
		b.cfg.ServiceAccountEmail != "" &&
		b.cfg.ServiceAccountKey != ""
}

// Init authenticates, verifies the spreadsheet and creates the worksheet
// with the header row when it does not exist yet. Safe to call again.
func (b *Backend) Init(ctx context.Context) error {
	if b.svc == nil {
		conf := &jwt.Config{
			Email:      b.cfg.ServiceAccountEmail,
			PrivateKey: []byte(b.cfg.ServiceAccountKey),
			Scopes:     []string{gsheets.SpreadsheetsScope},
			TokenURL:   google.JWTTokenURL,
		}

		svc, err := gsheets.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
		if err != nil {
			return fmt.Errorf("creating sheets service: %w", err)
		}
		b.svc = svc
	}
	svc := b.svc

	doc, err := svc.Spreadsheets.Get(b.cfg.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("loading spreadsheet: %w", err)
	}

	for _, sheet := range doc.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == b.cfg.WorksheetName {
			return nil
		}
	}

	b.log.Info().Str("worksheet", b.cfg.WorksheetName).Msg("Creating new worksheet")
	_, err = svc.Spreadsheets.BatchUpdate(b.cfg.SpreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddSheet: &gsheets.AddSheetRequest{
				Properties: &gsheets.SheetProperties{Title: b.cfg.WorksheetName},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("creating worksheet: %w", err)
	}

	header := make([]interface{}, len(storage.Headers))
	for i, h := range storage.Headers {
		header[i] = h
	}
	_, err = svc.Spreadsheets.Values.Update(b.cfg.SpreadsheetID, b.rangeOf("A1"), &gsheets.ValueRange{
		Values: [][]interface{}{header},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}

	return nil
}

// LoadIdentities reads every previously-persisted value of the hash column.
func (b *Backend) LoadIdentities(ctx context.Context) (storage.ExistingSet, error) {
	resp, err := b.svc.Spreadsheets.Values.Get(b.cfg.SpreadsheetID, b.rangeOf(hashColumn)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading hash column: %w", err)
	}

	set := storage.ExistingSet{}
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if hash, ok := row[0].(string); ok {
			set.Add(hash)
		}
	}
	return set, nil
}

// Append bulk-appends all rows in a single values.append call.
func (b *Backend) Append(ctx context.Context, rows []storage.Row) error {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = row.Values()
	}

	_, err := b.svc.Spreadsheets.Values.Append(b.cfg.SpreadsheetID, b.rangeOf("A1"), &gsheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending %d rows: %w", len(rows), err)
	}
	return nil
}

func (b *Backend) rangeOf(ref string) string {
	return fmt.Sprintf("'%s'!%s", b.cfg.WorksheetName, ref)
}

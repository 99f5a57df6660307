// Package sheets persists slices in a Google Spreadsheet, one row per slice:
// the slice name in column A, the encoded value in column B. It exists for
// sessions that want their ledger readable (and editable in a pinch) from a
// shared spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"budgetflow/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Store struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// New creates a spreadsheet-backed store. Credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, sheetName string) (*Store, error) {
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if sheetName == "" {
		sheetName = "State"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Store{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	inlineJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	credFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inlineJSON == "" && credFile == "" {
		credFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inlineJSON != "":
		credentialsJSON = []byte(inlineJSON)
	case credFile != "":
		data, err := os.ReadFile(credFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope),
	)
}

// rowOf finds the 1-based row holding the slice, or 0 when absent.
func (s *Store) rowOf(ctx context.Context, slice core.Slice) (row int, value string, err error) {
	rng := fmt.Sprintf("%s!A:B", s.sheetName)
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, "", fmt.Errorf("get range %s: %w", rng, err)
	}
	for i, cells := range resp.Values {
		if len(cells) == 0 {
			continue
		}
		name, _ := cells[0].(string)
		if core.Slice(name) != slice {
			continue
		}
		if len(cells) > 1 {
			value, _ = cells[1].(string)
		}
		return i + 1, value, nil
	}
	return 0, "", nil
}

func (s *Store) Read(ctx context.Context, slice core.Slice) ([]byte, error) {
	row, value, err := s.rowOf(ctx, slice)
	if err != nil {
		return nil, err
	}
	if row == 0 || value == "" {
		return nil, nil
	}
	return []byte(value), nil
}

func (s *Store) Write(ctx context.Context, slice core.Slice, data []byte) error {
	row, _, err := s.rowOf(ctx, slice)
	if err != nil {
		return err
	}

	vr := &gsheet.ValueRange{Values: [][]any{{string(slice), string(data)}}}
	if row == 0 {
		rng := fmt.Sprintf("%s!A:B", s.sheetName)
		_, err = s.svc.Spreadsheets.Values.Append(s.spreadsheetID, rng, vr).
			ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("append slice %q: %w", slice, err)
		}
		return nil
	}

	rng := fmt.Sprintf("%s!A%d:B%d", s.sheetName, row, row)
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update slice %q: %w", slice, err)
	}
	return nil
}

// Close is a no-op; the underlying HTTP client needs no teardown.
func (s *Store) Close() error { return nil }

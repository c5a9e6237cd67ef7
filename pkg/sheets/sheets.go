package sheets

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"ercsheet/pkg/config"
	"ercsheet/pkg/schema"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type SheetClient struct {
	service       *sheets.Service
	drive         *drive.Service
	spreadsheetID string
	sheetName     string
	maxRetries    int
	maxBackoff    time.Duration
	// base of the exponential backoff; one second outside tests.
	backoffUnit time.Duration
}

// NewSheetClient authenticates with the configured credentials file. Both
// service account keys and authorized user files are accepted.
func NewSheetClient(ctx context.Context, cfg *config.Config, sheetName string) (*SheetClient, error) {
	b, err := os.ReadFile(cfg.Store.Google.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsScope, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials file: %w", err)
	}
	return NewSheetClientWithOptions(ctx, cfg.Store.Google.SpreadsheetID, sheetName, cfg.Store.Retry,
		option.WithCredentials(creds))
}

// NewSheetClientWithOptions builds a client from explicit API options.
func NewSheetClientWithOptions(
	ctx context.Context,
	spreadsheetID, sheetName string,
	retry config.RetryConfig,
	opts ...option.ClientOption,
) (*SheetClient, error) {
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets client: %w", err)
	}
	drv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Drive client: %w", err)
	}
	return &SheetClient{
		service:       srv,
		drive:         drv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		maxRetries:    retry.MaxRetries,
		maxBackoff:    retry.MaxBackoff(),
		backoffUnit:   time.Second,
	}, nil
}

// WithSpreadsheet returns a client bound to another spreadsheet.
func (s *SheetClient) WithSpreadsheet(spreadsheetID string) *SheetClient {
	c := *s
	c.spreadsheetID = spreadsheetID
	return &c
}

func (s *SheetClient) SpreadsheetID() string {
	return s.spreadsheetID
}

// ReadCells fetches each cell with batchGet. Values are unformatted, so
// percentages arrive as fractions and numbers as float64. Empty cells are
// left out of the result.
func (s *SheetClient) ReadCells(ctx context.Context, cells []string) (schema.CellValues, error) {
	values := make(schema.CellValues, len(cells))
	for start := 0; start < len(cells); start += batchSize {
		end := min(start+batchSize, len(cells))
		chunk := cells[start:end]
		ranges := make([]string, len(chunk))
		for i, c := range chunk {
			ranges[i] = a1(s.sheetName, c)
		}

		var resp *sheets.BatchGetValuesResponse
		err := s.withRetry(ctx, "read cells", func() error {
			var err error
			resp, err = s.service.Spreadsheets.Values.BatchGet(s.spreadsheetID).
				Ranges(ranges...).
				ValueRenderOption("UNFORMATTED_VALUE").
				DateTimeRenderOption("FORMATTED_STRING").
				Context(ctx).Do()
			return err
		})
		if err != nil {
			return nil, err
		}
		if len(resp.ValueRanges) != len(chunk) {
			return nil, fmt.Errorf("read cells: asked for %d ranges, got %d", len(chunk), len(resp.ValueRanges))
		}
		// valueRanges come back in request order.
		for i, vr := range resp.ValueRanges {
			if len(vr.Values) > 0 && len(vr.Values[0]) > 0 {
				values[chunk[i]] = vr.Values[0][0]
			}
		}
	}
	log.Debugf("Read %d of %d cells from %s", len(values), len(cells), s.sheetName)
	return values, nil
}

// ReadRange reads a rectangular range such as "A1:K70" into a grid anchored at
// its top-left cell.
func (s *SheetClient) ReadRange(ctx context.Context, rng string) (schema.Grid, error) {
	anchor, _, _ := strings.Cut(rng, ":")
	var resp *sheets.ValueRange
	err := s.withRetry(ctx, "read range", func() error {
		var err error
		resp, err = s.service.Spreadsheets.Values.Get(s.spreadsheetID, a1(s.sheetName, rng)).
			ValueRenderOption("UNFORMATTED_VALUE").
			DateTimeRenderOption("FORMATTED_STRING").
			Context(ctx).Do()
		return err
	})
	if err != nil {
		return schema.Grid{}, err
	}
	return schema.NewGrid(anchor, resp.Values)
}

// WriteCells sends every write in a single values batchUpdate.
func (s *SheetClient) WriteCells(ctx context.Context, writes []schema.Write) error {
	if len(writes) == 0 {
		return nil
	}
	data := make([]*sheets.ValueRange, len(writes))
	for i, w := range writes {
		data[i] = &sheets.ValueRange{
			Range:  a1(s.sheetName, w.Cell),
			Values: [][]interface{}{{cellValue(w)}},
		}
	}
	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	var resp *sheets.BatchUpdateValuesResponse
	err := s.withRetry(ctx, "write cells", func() error {
		var err error
		resp, err = s.service.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
		return err
	})
	if err != nil {
		return err
	}
	log.Debugf("Updated %d cells in %s", resp.TotalUpdatedCells, s.sheetName)
	return nil
}

// EnsureSheetExists adds the worksheet tab if the spreadsheet lacks it.
func (s *SheetClient) EnsureSheetExists(ctx context.Context) error {
	var ss *sheets.Spreadsheet
	err := s.withRetry(ctx, "get spreadsheet", func() error {
		var err error
		ss, err = s.service.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
		return err
	})
	if err != nil {
		return err
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == s.sheetName {
			return nil
		}
	}
	log.Infof("Adding missing sheet %q", s.sheetName)
	addSheetReq := &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{
				Title: s.sheetName,
			},
		},
	}
	return s.withRetry(ctx, "add sheet", func() error {
		_, err := s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{addSheetReq},
		}).Context(ctx).Do()
		return err
	})
}

// CopyTemplate copies a template spreadsheet through Drive and returns the new
// spreadsheet ID. An empty folderID keeps the template's parent folder.
func (s *SheetClient) CopyTemplate(ctx context.Context, templateFileID, name, folderID string) (string, error) {
	f := &drive.File{Name: name}
	if folderID != "" {
		f.Parents = []string{folderID}
	}
	var copied *drive.File
	err := s.withRetry(ctx, "copy template", func() error {
		var err error
		copied, err = s.drive.Files.Copy(templateFileID, f).
			SupportsAllDrives(true).
			Fields("id").
			Context(ctx).Do()
		return err
	})
	if err != nil {
		return "", err
	}
	log.Infof("Copied template %s to %q (%s)", templateFileID, name, copied.Id)
	return copied.Id, nil
}

// withRetry retries rate limited and transient server errors with capped
// exponential backoff.
func (s *SheetClient) withRetry(ctx context.Context, op string, call func() error) error {
	attempts := max(s.maxRetries, 1)
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		err = call()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return fmt.Errorf("%s: %w", op, err)
		}
		if attempt == attempts-1 {
			break
		}
		backoff := time.Duration(math.Pow(2, float64(attempt))) * s.backoffUnit
		if s.maxBackoff > 0 && backoff > s.maxBackoff {
			backoff = s.maxBackoff
		}
		log.Warnf("Rate limited by Google API during %s, retrying in %v...", op, backoff)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("%s: failed after %d attempts: %w", op, attempts, err)
}

func retryable(err error) bool {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return false
	}
	switch {
	case gErr.Code == http.StatusTooManyRequests:
		return true
	case gErr.Code >= http.StatusInternalServerError:
		return true
	case gErr.Code == http.StatusForbidden:
		// Quota errors share 403 with permission errors.
		for _, item := range gErr.Errors {
			if strings.Contains(strings.ToLower(item.Reason), "ratelimitexceeded") {
				return true
			}
		}
	}
	return false
}

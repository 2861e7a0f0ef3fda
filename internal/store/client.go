package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/faizmokh/gaji/internal/ledger"
	"github.com/faizmokh/gaji/internal/logging"
)

// Client talks to the remote record store.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient builds a Client rooted at baseURL. A nil httpClient uses
// http.DefaultClient; a nil logger discards output.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logging.Component(logger, logging.ComponentStore),
	}
}

// Fetch loads every record with GET /data.
func (c *Client) Fetch(ctx context.Context) (Snapshot, error) {
	body, err := c.do(ctx, http.MethodGet, "/data", nil)
	if err != nil {
		return Snapshot{}, err
	}
	return DecodeSnapshot(body)
}

// SaveWeek upserts a week with POST /save.
func (c *Client) SaveWeek(ctx context.Context, week ledger.WeekRecord) (ledger.WeekRecord, error) {
	if week.WeekID == ledger.BonusRecordID {
		return ledger.WeekRecord{}, ErrReservedWeekID
	}
	body, err := c.do(ctx, http.MethodPost, "/save", week)
	if err != nil {
		return ledger.WeekRecord{}, err
	}

	saved, ok := c.echoed(body)
	if !ok || saved.IsBonus || saved.Week.WeekID != week.WeekID {
		return week, nil
	}
	return saved.Week, nil
}

// SaveBonus upserts the reserved bonus record with POST /save.
func (c *Client) SaveBonus(ctx context.Context, value int) (int, error) {
	body, err := c.do(ctx, http.MethodPost, "/save", NewBonusRecord(value))
	if err != nil {
		return 0, err
	}

	saved, ok := c.echoed(body)
	if !ok || !saved.IsBonus {
		return value, nil
	}
	return saved.Bonus, nil
}

// DeleteWeek removes a week with POST /delete.
func (c *Client) DeleteWeek(ctx context.Context, weekID string) error {
	_, err := c.do(ctx, http.MethodPost, "/delete", DeleteRequest{WeekID: weekID})
	return err
}

// echoed decodes the record a save endpoint echoed back, if any. Backends
// that answer with an empty body or a status message are accepted.
func (c *Client) echoed(body []byte) (Record, bool) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Record{}, false
	}
	rec, err := DecodeRecord(body)
	if err != nil {
		c.logger.Debug("save response is not a record", logging.FieldError, err)
		return Record{}, false
	}
	return rec, true
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("record store request failed",
			logging.FieldMethod, method,
			logging.FieldPath, path,
			logging.FieldRequestID, requestID,
			logging.FieldError, err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	c.logger.Debug("record store request",
		logging.FieldMethod, method,
		logging.FieldPath, path,
		logging.FieldRequestID, requestID,
		logging.FieldStatusCode, resp.StatusCode,
		logging.FieldDuration, time.Since(start).Milliseconds())

	if resp.StatusCode == http.StatusNotFound && path == "/delete" {
		return nil, ledger.ErrWeekNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%w: %s %s returned %d: %s", ErrUnexpectedStatus, method, path, resp.StatusCode, snippet(body))
		c.logger.Error("record store rejected request",
			logging.FieldRequestID, requestID,
			logging.FieldStatusCode, resp.StatusCode,
			logging.FieldError, err)
		return nil, err
	}
	return body, nil
}

func snippet(body []byte) string {
	const limit = 200
	text := strings.TrimSpace(string(body))
	if len(text) > limit {
		text = text[:limit] + "..."
	}
	if text == "" {
		return "(empty body)"
	}
	return text
}

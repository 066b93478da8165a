// Package virustotal implements the scan provider port against the
// VirusTotal v2 REST API.
package virustotal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hmodding/website-jobs/internal/core"
	"github.com/hmodding/website-jobs/internal/domain/model"
)

// Config captures the subset of VirusTotal behaviour we need.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Client  *http.Client
}

// Client talks to the VirusTotal v2 file scan endpoints. It performs no
// retries and no rate limiting of its own; the dispatcher in front of it
// owns the request budget.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient builds a VirusTotal client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("virustotal base url is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("virustotal api key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		client:  hc,
	}, nil
}

var _ core.ScanProvider = (*Client)(nil)

// submitResponse is the wire shape of POST /file/scan.
type submitResponse struct {
	ResponseCode int    `json:"response_code"`
	ScanID       string `json:"scan_id"`
	VerboseMsg   string `json:"verbose_msg"`
}

// reportResponse is the wire shape of GET /file/report. Only the fields the
// coordinator persists are decoded; per-engine scan details stay behind.
type reportResponse struct {
	ResponseCode int    `json:"response_code"`
	ScanID       string `json:"scan_id"`
	Resource     string `json:"resource"`
	Positives    int    `json:"positives"`
	Total        int    `json:"total"`
	Permalink    string `json:"permalink"`
	ScanDate     string `json:"scan_date"`
	VerboseMsg   string `json:"verbose_msg"`
}

// Submit uploads file contents for scanning and returns the scan id used to
// poll for the report later.
func (c *Client) Submit(ctx context.Context, contents []byte, fileName string) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	if err := form.WriteField("apikey", c.apiKey); err != nil {
		return "", fmt.Errorf("encode submit form: %w", err)
	}
	part, err := form.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("encode submit form: %w", err)
	}
	if _, err := part.Write(contents); err != nil {
		return "", fmt.Errorf("encode submit form: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("encode submit form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/file/scan", &body)
	if err != nil {
		return "", fmt.Errorf("build submit request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var parsed submitResponse
	if err := c.do(req, &parsed); err != nil {
		return "", fmt.Errorf("submit file %s: %w", fileName, err)
	}

	if parsed.ResponseCode != 1 || parsed.ScanID == "" {
		return "", fmt.Errorf("submit file %s rejected: %s", fileName, parsed.VerboseMsg)
	}
	return parsed.ScanID, nil
}

// Report fetches the scan outcome for a prior submission. A report that is
// still being produced yields Ready=false rather than an error.
func (c *Client) Report(ctx context.Context, submissionID string) (*core.ScanOutcome, error) {
	query := url.Values{}
	query.Set("apikey", c.apiKey)
	query.Set("resource", submissionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/file/report?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build report request: %w", err)
	}

	var parsed reportResponse
	if err := c.do(req, &parsed); err != nil {
		return nil, fmt.Errorf("fetch report for %s: %w", submissionID, err)
	}

	// response_code 1 means the report exists. -2 means the file is still
	// queued for analysis; 0 means the resource is not indexed yet, which
	// the API also returns briefly right after submission.
	if parsed.ResponseCode != 1 {
		return &core.ScanOutcome{Ready: false}, nil
	}

	report := model.ScanReport{
		Positives: parsed.Positives,
		Total:     parsed.Total,
		Permalink: parsed.Permalink,
	}
	raw, err := json.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("encode sanitized report for %s: %w", submissionID, err)
	}
	report.Raw = raw

	return &core.ScanOutcome{Ready: true, Report: report}, nil
}

// do executes a request and decodes the JSON body into out. Rate-limit
// responses surface as errors so the caller abandons the attempt instead of
// hammering the API.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return errors.New("api rate limit exceeded")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

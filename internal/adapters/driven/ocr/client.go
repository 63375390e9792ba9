// Package ocr provides the extraction client for a pdf-extract-api style
// OCR service.
//
// A page is submitted by multipart upload to /ocr/upload, falling back to an
// inline base64 JSON submission to /ocr/request. The service either answers
// with text directly or with a task identifier that is polled at
// /ocr/result/{task_id} until it reaches SUCCESS or FAILURE.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driven"
	"github.com/custodia-labs/studydeck/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.TextExtractor = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL        = "http://localhost:8000"
	DefaultModel          = "llama3.1"
	DefaultStrategy       = "llama_vision"
	DefaultStorageProfile = "default"
	DefaultPollInterval   = time.Second
	DefaultRequestTimeout = 5 * time.Minute
)

// Service endpoints relative to the base URL.
const (
	uploadPath  = "/ocr/upload"
	requestPath = "/ocr/request"
	resultPath  = "/ocr/result/"
)

// Task states reported by the result endpoint.
const (
	StateSuccess = "SUCCESS"
	StateFailure = "FAILURE"
)

// Config holds configuration for the extraction client.
type Config struct {
	// BaseURL is the service root (default: http://localhost:8000).
	BaseURL string

	// Model is the vision model used by the service (default: llama3.1).
	Model string

	// Strategy is the OCR strategy (default: llama_vision).
	Strategy string

	// StorageProfile selects where the service stores results (default: default).
	StorageProfile string

	// StorageFilename, when set, names the stored result on the service.
	StorageFilename string

	// Cache lets the service reuse earlier results for identical files.
	Cache bool

	// Prompt is the extraction instruction sent with every page.
	Prompt string

	// PollInterval is the wait between task polls (default: 1s).
	PollInterval time.Duration

	// PollBackoff multiplies the interval after each poll. Values below 1 keep it fixed.
	PollBackoff float64

	// PollMaxInterval caps the backed-off interval. Zero means no cap.
	PollMaxInterval time.Duration

	// MaxPolls bounds the number of polls. Zero means unbounded.
	MaxPolls int

	// PollTimeout bounds the total polling time. Zero means no timeout.
	PollTimeout time.Duration

	// HTTPClient overrides the HTTP client (default: 5 minute timeout).
	HTTPClient *http.Client
}

// ConfigFromSettings builds a Config from application settings.
func ConfigFromSettings(s domain.OCRSettings, prompt string) Config {
	return Config{
		BaseURL:         s.BaseURL,
		Model:           s.Model,
		Strategy:        s.Strategy,
		StorageProfile:  s.StorageProfile,
		Cache:           s.Cache,
		Prompt:          prompt,
		PollInterval:    s.PollInterval,
		PollBackoff:     s.PollBackoff,
		PollMaxInterval: s.PollMaxInterval,
		MaxPolls:        s.MaxPolls,
		PollTimeout:     s.PollTimeout,
	}
}

// Client submits page artifacts to the OCR service.
type Client struct {
	cfg    Config
	client *http.Client
}

// submitResponse is returned by both submission endpoints.
type submitResponse struct {
	Text   *string `json:"text"`
	TaskID string  `json:"task_id"`
}

// resultResponse is returned by the result endpoint.
type resultResponse struct {
	State  string          `json:"state"`
	Result json.RawMessage `json:"result"`
	Info   json.RawMessage `json:"info"`
}

// requestBody is the inline JSON submission.
type requestBody struct {
	File            string `json:"file"`
	OCRCache        bool   `json:"ocr_cache"`
	Model           string `json:"model"`
	Strategy        string `json:"strategy"`
	StorageProfile  string `json:"storage_profile"`
	StorageFilename string `json:"storage_filename,omitempty"`
	Prompt          string `json:"prompt,omitempty"`
}

// NewClient creates a new extraction client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Strategy == "" {
		cfg.Strategy = DefaultStrategy
	}
	if cfg.StorageProfile == "" {
		cfg.StorageProfile = DefaultStorageProfile
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.PollBackoff < 1 {
		cfg.PollBackoff = 1
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultRequestTimeout}
	}

	return &Client{cfg: cfg, client: client}
}

// Extract submits the page at pagePath and waits for its text.
// Transport or status failures on upload trigger the inline fallback; only
// failure of both submissions is reported.
func (c *Client) Extract(ctx context.Context, pagePath string) domain.ExtractionResult {
	content, err := os.ReadFile(pagePath)
	if err != nil {
		return failure("", fmt.Errorf("reading page artifact: %w", err))
	}

	resp, uploadErr := c.upload(ctx, pagePath, content)
	if uploadErr != nil {
		logger.Debug("upload of %s failed, falling back to inline request: %v", filepath.Base(pagePath), uploadErr)

		var requestErr error
		resp, requestErr = c.request(ctx, pagePath, content)
		if requestErr != nil {
			return failure("", fmt.Errorf("upload: %w; request: %w", uploadErr, requestErr))
		}
	}

	// An empty text next to a task_id means the result is still pending.
	if resp.Text != nil && *resp.Text != "" {
		return domain.ExtractionResult{Text: *resp.Text, TaskID: resp.TaskID}
	}
	if resp.TaskID != "" {
		return c.poll(ctx, resp.TaskID)
	}
	if resp.Text != nil {
		return domain.ExtractionResult{}
	}

	return failure("", errors.New("response carries neither text nor task_id"))
}

func (c *Client) upload(ctx context.Context, pagePath string, content []byte) (*submitResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filepath.Base(pagePath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}

	fields := [][2]string{
		{"ocr_cache", strconv.FormatBool(c.cfg.Cache)},
		{"model", c.cfg.Model},
		{"strategy", c.cfg.Strategy},
		{"storage_profile", c.cfg.StorageProfile},
	}
	if c.cfg.StorageFilename != "" {
		fields = append(fields, [2]string{"storage_filename", c.cfg.StorageFilename})
	}
	if c.cfg.Prompt != "" {
		fields = append(fields, [2]string{"prompt", c.cfg.Prompt})
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+uploadPath, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.submit(req)
}

func (c *Client) request(ctx context.Context, _ string, content []byte) (*submitResponse, error) {
	payload := requestBody{
		File:            base64.StdEncoding.EncodeToString(content),
		OCRCache:        c.cfg.Cache,
		Model:           c.cfg.Model,
		Strategy:        c.cfg.Strategy,
		StorageProfile:  c.cfg.StorageProfile,
		StorageFilename: c.cfg.StorageFilename,
		Prompt:          c.cfg.Prompt,
	}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+requestPath, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.submit(req)
}

func (c *Client) submit(req *http.Request) (*submitResponse, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var out submitResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func failure(taskID string, err error) domain.ExtractionResult {
	return domain.ExtractionResult{
		TaskID: taskID,
		Err:    domain.E(domain.KindExtractionFailure, "extracting text", err),
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

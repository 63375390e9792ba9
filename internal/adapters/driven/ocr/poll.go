package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/logger"
)

// poll fetches the task state until it is terminal, the poll budget is spent
// or ctx is done. The first poll is immediate; later polls are paced by a
// limiter whose interval grows by PollBackoff up to PollMaxInterval.
func (c *Client) poll(ctx context.Context, taskID string) domain.ExtractionResult {
	if c.cfg.PollTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.PollTimeout)
		defer cancel()
	}

	interval := c.cfg.PollInterval
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	for attempt := 1; ; attempt++ {
		if c.cfg.MaxPolls > 0 && attempt > c.cfg.MaxPolls {
			return failure(taskID, fmt.Errorf("task %s not finished after %d polls", taskID, c.cfg.MaxPolls))
		}
		if err := limiter.Wait(ctx); err != nil {
			// The limiter refuses waits that would pass the deadline.
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
			} else {
				err = context.DeadlineExceeded
			}
			return failure(taskID, fmt.Errorf("waiting for task %s: %w", taskID, err))
		}

		state, err := c.fetchResult(ctx, taskID)
		if err != nil {
			return failure(taskID, err)
		}

		switch state.State {
		case StateSuccess:
			text, err := resultText(state.Result)
			if err != nil {
				return failure(taskID, err)
			}
			return domain.ExtractionResult{Text: text, TaskID: taskID}
		case StateFailure:
			return failure(taskID, fmt.Errorf("task %s failed: %s", taskID, infoText(state.Info)))
		}

		logger.Debug("task %s state %s (poll %d)", taskID, state.State, attempt)

		if c.cfg.PollBackoff > 1 {
			interval = time.Duration(float64(interval) * c.cfg.PollBackoff)
			if c.cfg.PollMaxInterval > 0 && interval > c.cfg.PollMaxInterval {
				interval = c.cfg.PollMaxInterval
			}
			limiter.SetLimit(rate.Every(interval))
		}
	}
}

func (c *Client) fetchResult(ctx context.Context, taskID string) (*resultResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+resultPath+url.PathEscape(taskID), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polling task %s: %w", taskID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("polling task %s: status %d: %s", taskID, resp.StatusCode, truncate(string(body), 200))
	}

	var out resultResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode task state: %w", err)
	}
	return &out, nil
}

// resultText accepts a JSON string or any other JSON value, which is
// returned verbatim.
func resultText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", errors.New("task succeeded without a result")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	return string(raw), nil
}

func infoText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return "no failure info"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, key := range []string{"error", "message", "exc_message"} {
			if v, ok := obj[key]; ok {
				return fmt.Sprint(v)
			}
		}
	}
	return string(raw)
}

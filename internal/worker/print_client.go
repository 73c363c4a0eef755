package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const documentPrintPath = "internal/documents"

var (
	errPrintNotFound     = errors.New("print page not found")
	errPrintUnrenderable = errors.New("print page rejected document")
)

// fetchPrintHTML pulls the fully rendered print page for a document from the
// API's internal endpoint. Only callers holding the internal secret may use
// it; the secret travels in a header so it never reaches access logs.
func fetchPrintHTML(ctx context.Context, apiBaseURL string, id uint, secret, correlationID string) (string, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return "", fmt.Errorf("internal api secret missing")
	}

	apiBaseURL = strings.TrimRight(strings.TrimSpace(apiBaseURL), "/")
	if apiBaseURL == "" {
		return "", fmt.Errorf("internal api base url missing")
	}

	targetURL := fmt.Sprintf("%s/v1/%s/%d/print", apiBaseURL, documentPrintPath, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", fmt.Errorf("build internal request: %w", err)
	}
	req.Header.Set("X-Internal-Secret", secret)
	if correlationID != "" {
		req.Header.Set("X-Correlation-ID", correlationID)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request print page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8*1024))
		detail := strings.TrimSpace(string(body))
		switch resp.StatusCode {
		case http.StatusNotFound:
			return "", fmt.Errorf("%w: %s", errPrintNotFound, detail)
		case http.StatusBadRequest:
			return "", fmt.Errorf("%w: %s", errPrintUnrenderable, detail)
		}
		return "", fmt.Errorf("print page status %d: %s", resp.StatusCode, detail)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read print page: %w", err)
	}

	return string(data), nil
}

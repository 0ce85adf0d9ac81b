package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/eastgenomics/inca-import/internal/domain"
)

// PanelAppClient handles interactions with the PanelApp REST API
type PanelAppClient struct {
	baseURL    string
	httpClient *http.Client
	rateLimit  *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	retryCount int
	log        *logrus.Logger
}

// Panel represents one catalogue entry from the panels listing
type Panel struct {
	ID                int      `json:"id"`
	Name              string   `json:"name"`
	RelevantDisorders []string `json:"relevant_disorders"`
}

// panelsPage represents one page of the paginated panels listing
type panelsPage struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []Panel `json:"results"`
}

// NewPanelAppClient creates a new PanelApp API client
func NewPanelAppClient(config domain.PanelAppConfig, logger *logrus.Logger) *PanelAppClient {
	if config.BaseURL == "" {
		config.BaseURL = "https://panelapp.genomicsengland.co.uk/api/v1/"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 1
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "PanelApp",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &PanelAppClient{
		baseURL:    strings.TrimSuffix(config.BaseURL, "/") + "/",
		httpClient: &http.Client{Timeout: config.Timeout},
		rateLimit:  rate.NewLimiter(rate.Limit(config.RateLimit), 1),
		breaker:    breaker,
		retryCount: config.RetryCount,
		log:        logger,
	}
}

// FetchPanels walks the paginated panels listing, following next links
// until the API reports no further page, and returns the full catalogue.
func (c *PanelAppClient) FetchPanels(ctx context.Context) ([]Panel, error) {
	var panels []Panel
	pageURL := c.baseURL + "panels/"

	for pageURL != "" {
		if err := c.rateLimit.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}

		page, err := c.fetchPageWithRetry(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		panels = append(panels, page.Results...)

		c.log.WithFields(logrus.Fields{
			"page":    pageURL,
			"results": len(page.Results),
			"total":   page.Count,
		}).Debug("Panel page fetched")

		if page.Next == nil {
			break
		}
		pageURL = *page.Next
	}

	c.log.WithFields(logrus.Fields{
		"panels": len(panels),
	}).Info("Panel catalogue fetched")

	return panels, nil
}

// fetchPageWithRetry fetches one listing page through the circuit breaker,
// retrying transient failures up to the configured count.
func (c *PanelAppClient) fetchPageWithRetry(ctx context.Context, pageURL string) (*panelsPage, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.fetchPage(ctx, pageURL)
		})
		if err == nil {
			return result.(*panelsPage), nil
		}
		if err == gobreaker.ErrOpenState {
			return nil, fmt.Errorf("PanelApp service unavailable (circuit breaker open)")
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to fetch panel page after %d attempts: %w", c.retryCount+1, lastErr)
}

// fetchPage performs a single page request
func (c *PanelAppClient) fetchPage(ctx context.Context, pageURL string) (*panelsPage, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "inca-import/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("PanelApp API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var page panelsPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return &page, nil
}

// WriteDisorderTSV renders a fetched catalogue as the headerless
// three-column reference dump the panel index loader reads: panel id,
// panel name, bracketed disorder list.
func WriteDisorderTSV(w io.Writer, panels []Panel) error {
	for _, panel := range panels {
		line := fmt.Sprintf("%s\t%s\t%s\n",
			strconv.Itoa(panel.ID), panel.Name, bracketedList(panel.RelevantDisorders))
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("failed to write panel line: %w", err)
		}
	}
	return nil
}

// bracketedList renders disorders as a single-quoted bracketed list,
// escaping backslashes and embedded quotes so the loader can round-trip
// the entries.
func bracketedList(entries []string) string {
	if len(entries) == 0 {
		return "[]"
	}
	quoted := make([]string, len(entries))
	for i, entry := range entries {
		escaped := strings.ReplaceAll(entry, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, `'`, `\'`)
		quoted[i] = "'" + escaped + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

package suggest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"humanaid/pkg/types"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// scrapeResponse is the field suggester's wire format.
type scrapeResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zip_code"`
	Hours       string `json:"hours"`
}

// Client calls the external scraper that drafts a submission from a web
// page. Its output is advisory and is never persisted.
type Client struct {
	logger     *logrus.Logger
	httpClient *resty.Client
	keywords   KeywordMap
	enabled    bool
}

func New(logger *logrus.Logger, baseURL string, timeout time.Duration, keywords KeywordMap) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Accept", "application/json")

	return &Client{
		logger:     logger,
		httpClient: client,
		keywords:   keywords,
		enabled:    baseURL != "",
	}
}

func (c *Client) Suggest(ctx context.Context, pageURL string) (*types.SubmissionDraft, error) {
	if !c.enabled {
		return nil, types.ErrSuggesterDisabled
	}

	pageURL = strings.TrimSpace(pageURL)
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, types.NewValidationError("url", "must be an absolute http(s) URL")
	}

	var out scrapeResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("url", pageURL).
		SetResult(&out).
		Get("/scrape")
	if err != nil {
		return nil, fmt.Errorf("failed to call field suggester: %w", err)
	}

	if resp.IsError() {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode(),
			"url":         pageURL,
		}).Warn("field suggester returned an error")
		return nil, fmt.Errorf("field suggester returned status %d", resp.StatusCode())
	}

	draft := &types.SubmissionDraft{
		Title:       strings.TrimSpace(out.Title),
		Description: strings.TrimSpace(out.Description),
		Phone:       strings.TrimSpace(out.Phone),
		Email:       strings.TrimSpace(out.Email),
		Website:     strings.TrimSpace(out.Website),
		Address:     strings.TrimSpace(out.Address),
		City:        strings.TrimSpace(out.City),
		State:       strings.TrimSpace(out.State),
		ZipCode:     strings.TrimSpace(out.ZipCode),
		Hours:       strings.TrimSpace(out.Hours),
	}
	if draft.Website == "" {
		draft.Website = pageURL
	}
	draft.PredictedCategory = c.keywords.Predict(draft.Title, draft.Description)

	return draft, nil
}

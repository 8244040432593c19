package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"codeboard/internal/models"
	"codeboard/internal/providers"
	"codeboard/internal/structures"
)

const gitHubGraphQL = "https://api.github.com/graphql"

// GitHubClient talks to the GitHub GraphQL API.
//
// Calendar convention: contribution day keys are YYYY-MM-DD dates as
// returned by contributionCalendar, values are contribution counts.
type GitHubClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	now        func() time.Time
}

func NewGitHubClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) *GitHubClient {
	return &GitHubClient{
		httpClient: &http.Client{Timeout: conf.Upstream.FetchTimeout},
		baseURL:    gitHubGraphQL,
		token:      conf.Upstream.GitHub.Token,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

type ghGraphQLError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type ghYearsResp struct {
	Message string           `json:"message"`
	Errors  []ghGraphQLError `json:"errors"`
	Data    struct {
		User *struct {
			CreatedAt               time.Time `json:"createdAt"`
			ContributionsCollection struct {
				ContributionYears []int `json:"contributionYears"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
}

// ActiveYears lists contribution years. When GitHub does not report them,
// the range is synthesized from the account creation year through the
// current year, descending.
func (c *GitHubClient) ActiveYears(ctx context.Context, handle string) ([]int, error) {
	start := time.Now()
	query := `
		query ($login: String!) {
			user(login: $login) {
				createdAt
				contributionsCollection {
					contributionYears
				}
			}
		}`

	var resp ghYearsResp
	err := c.doGraphQL(ctx, graphQLRequest{Query: query, Variables: map[string]interface{}{"login": handle}}, &resp)
	c.observe("active_years", start, err)
	if err != nil {
		return nil, err
	}
	if err := c.checkAPIErrors(handle, resp.Message, resp.Errors, resp.Data.User == nil); err != nil {
		return nil, err
	}

	years := resp.Data.User.ContributionsCollection.ContributionYears
	if len(years) == 0 {
		createdYear := resp.Data.User.CreatedAt.UTC().Year()
		for y := c.now().UTC().Year(); y >= createdYear; y-- {
			years = append(years, y)
		}
	}
	return years, nil
}

type ghCalendarResp struct {
	Message string           `json:"message"`
	Errors  []ghGraphQLError `json:"errors"`
	Data    struct {
		User *struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					TotalContributions int `json:"totalContributions"`
					Weeks              []struct {
						ContributionDays []struct {
							Date              string `json:"date"`
							ContributionCount int    `json:"contributionCount"`
						} `json:"contributionDays"`
					} `json:"weeks"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
}

// YearCalendar fetches the contribution calendar for one year, flattened
// from GitHub's week rows into a date-keyed map.
func (c *GitHubClient) YearCalendar(ctx context.Context, handle string, year int) (models.RawCalendar, error) {
	start := time.Now()
	query := `
		query ($login: String!, $from: DateTime!, $to: DateTime!) {
			user(login: $login) {
				contributionsCollection(from: $from, to: $to) {
					contributionCalendar {
						totalContributions
						weeks {
							contributionDays {
								date
								contributionCount
							}
						}
					}
				}
			}
		}`

	variables := map[string]interface{}{
		"login": handle,
		"from":  fmt.Sprintf("%d-01-01T00:00:00Z", year),
		"to":    fmt.Sprintf("%d-12-31T23:59:59Z", year),
	}

	var resp ghCalendarResp
	err := c.doGraphQL(ctx, graphQLRequest{Query: query, Variables: variables}, &resp)
	c.observe("year_calendar", start, err)
	if err != nil {
		return nil, err
	}
	if err := c.checkAPIErrors(handle, resp.Message, resp.Errors, resp.Data.User == nil); err != nil {
		return nil, err
	}

	cal := models.RawCalendar{}
	for _, week := range resp.Data.User.ContributionsCollection.ContributionCalendar.Weeks {
		for _, day := range week.ContributionDays {
			if day.Date == "" {
				c.logger.Warnf(providers.TypeUpstream, "github calendar for %s/%d: skipping day with empty date", handle, year)
				continue
			}
			cal[day.Date] = day.ContributionCount
		}
	}
	return cal, nil
}

func (c *GitHubClient) checkAPIErrors(handle, message string, apiErrors []ghGraphQLError, userMissing bool) error {
	// A root-level message means the request itself was rejected
	// (bad credentials, rate limit), not that the user is unknown.
	if message != "" {
		return fmt.Errorf("github api rejected request: %s: %w", message, ErrUnavailable)
	}
	for _, e := range apiErrors {
		if e.Type == "NOT_FOUND" {
			return fmt.Errorf("github user %q: %w", handle, ErrUserNotFound)
		}
	}
	if len(apiErrors) > 0 {
		return fmt.Errorf("github api error: %s: %w", apiErrors[0].Message, ErrUnavailable)
	}
	if userMissing {
		return fmt.Errorf("github user %q: %w", handle, ErrUserNotFound)
	}
	return nil
}

func (c *GitHubClient) doGraphQL(ctx context.Context, payload graphQLRequest, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github request failed: %s: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("github response read failed: %s: %w", err, ErrUnavailable)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("github returned non-JSON response (status %d): %w", resp.StatusCode, ErrUnavailable)
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("github response decode failed: %s: %w", err, ErrUnavailable)
	}
	return nil
}

func (c *GitHubClient) observe(operation string, start time.Time, err error) {
	c.metrics.ObserveUpstreamFetch(string(models.PlatformGitHub), operation, time.Since(start))
	if err != nil {
		c.metrics.IncUpstreamErrors(string(models.PlatformGitHub), ErrorKind(err))
	}
}

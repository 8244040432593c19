package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"codeboard/internal/models"
	"codeboard/internal/providers"
	"codeboard/internal/structures"
)

const leetCodeGraphQL = "https://leetcode.com/graphql"

// LeetCodeClient talks to the LeetCode GraphQL API.
//
// Calendar convention: submissionCalendar keys are epoch seconds (UTC
// midnight of the submission day), values are submission counts.
type LeetCodeClient struct {
	httpClient *http.Client
	baseURL    string
	session    string
	csrfToken  string
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewLeetCodeClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) *LeetCodeClient {
	return &LeetCodeClient{
		httpClient: &http.Client{Timeout: conf.Upstream.FetchTimeout},
		baseURL:    leetCodeGraphQL,
		session:    conf.Upstream.LeetCode.Session,
		csrfToken:  conf.Upstream.LeetCode.CSRFToken,
		logger:     logger,
		metrics:    metrics,
	}
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type lcUserCalendar struct {
	ActiveYears        []int  `json:"activeYears"`
	SubmissionCalendar string `json:"submissionCalendar"`
}

type lcMatchedUserResp struct {
	Data struct {
		MatchedUser *struct {
			UserCalendar lcUserCalendar `json:"userCalendar"`
		} `json:"matchedUser"`
	} `json:"data"`
}

// ActiveYears lists the years LeetCode reports any submissions for.
func (c *LeetCodeClient) ActiveYears(ctx context.Context, handle string) ([]int, error) {
	start := time.Now()
	query := `
		query GetActiveYears($username: String!) {
			matchedUser(username: $username) {
				userCalendar {
					activeYears
				}
			}
		}`

	var resp lcMatchedUserResp
	err := c.doGraphQL(ctx, graphQLRequest{Query: query, Variables: map[string]interface{}{"username": handle}}, &resp)
	c.observe("active_years", start, err)
	if err != nil {
		return nil, err
	}
	if resp.Data.MatchedUser == nil {
		return nil, fmt.Errorf("leetcode user %q: %w", handle, ErrUserNotFound)
	}
	return resp.Data.MatchedUser.UserCalendar.ActiveYears, nil
}

// YearCalendar fetches the submission calendar for a single year. Keys of
// the returned calendar are epoch-second strings. Entries that cannot be
// coerced to an integer count are skipped and logged, not fatal.
func (c *LeetCodeClient) YearCalendar(ctx context.Context, handle string, year int) (models.RawCalendar, error) {
	start := time.Now()
	query := `
		query UserCalendarByYear($username: String!, $year: Int!) {
			matchedUser(username: $username) {
				userCalendar(year: $year) {
					submissionCalendar
				}
			}
		}`

	var resp lcMatchedUserResp
	err := c.doGraphQL(ctx, graphQLRequest{
		Query:     query,
		Variables: map[string]interface{}{"username": handle, "year": year},
	}, &resp)
	c.observe("year_calendar", start, err)
	if err != nil {
		return nil, err
	}
	if resp.Data.MatchedUser == nil {
		return nil, fmt.Errorf("leetcode user %q: %w", handle, ErrUserNotFound)
	}

	serialized := resp.Data.MatchedUser.UserCalendar.SubmissionCalendar
	if serialized == "" {
		return models.RawCalendar{}, nil
	}

	var entries map[string]interface{}
	if err := json.Unmarshal([]byte(serialized), &entries); err != nil {
		return nil, fmt.Errorf("leetcode calendar for %q year %d is not valid JSON: %w", handle, year, ErrUnavailable)
	}

	cal := make(models.RawCalendar, len(entries))
	for key, raw := range entries {
		count, err := cast.ToIntE(raw)
		if err != nil {
			c.logger.Warnf(providers.TypeUpstream, "leetcode calendar for %s/%d: skipping entry %q: %s", handle, year, key, err)
			continue
		}
		cal[key] = count
	}
	return cal, nil
}

type lcStatsResp struct {
	Data struct {
		MatchedUser *struct {
			Profile struct {
				Ranking    int `json:"ranking"`
				Reputation int `json:"reputation"`
			} `json:"profile"`
			SubmitStats struct {
				ACSubmissionNum []struct {
					Difficulty string `json:"difficulty"`
					Count      int    `json:"count"`
				} `json:"acSubmissionNum"`
			} `json:"submitStats"`
		} `json:"matchedUser"`
	} `json:"data"`
}

// Stats fetches the solved-count profile snapshot.
func (c *LeetCodeClient) Stats(ctx context.Context, handle string) (*models.LeetCodeStats, error) {
	start := time.Now()
	query := `
		query UserStats($username: String!) {
			matchedUser(username: $username) {
				profile {
					ranking
					reputation
				}
				submitStats {
					acSubmissionNum {
						difficulty
						count
					}
				}
			}
		}`

	var resp lcStatsResp
	err := c.doGraphQL(ctx, graphQLRequest{Query: query, Variables: map[string]interface{}{"username": handle}}, &resp)
	c.observe("stats", start, err)
	if err != nil {
		return nil, err
	}
	if resp.Data.MatchedUser == nil {
		return nil, fmt.Errorf("leetcode user %q: %w", handle, ErrUserNotFound)
	}

	stats := &models.LeetCodeStats{
		Ranking:    resp.Data.MatchedUser.Profile.Ranking,
		Reputation: resp.Data.MatchedUser.Profile.Reputation,
	}
	for _, s := range resp.Data.MatchedUser.SubmitStats.ACSubmissionNum {
		switch s.Difficulty {
		case "All":
			stats.TotalSolved = s.Count
		case "Easy":
			stats.EasySolved = s.Count
		case "Medium":
			stats.MediumSolved = s.Count
		case "Hard":
			stats.HardSolved = s.Count
		}
	}
	return stats, nil
}

type lcContestResp struct {
	Data struct {
		UserContestRanking *struct {
			AttendedContestsCount int     `json:"attendedContestsCount"`
			Rating                float64 `json:"rating"`
			GlobalRanking         int     `json:"globalRanking"`
			TopPercentage         float64 `json:"topPercentage"`
			Badge                 *struct {
				Name string `json:"name"`
			} `json:"badge"`
		} `json:"userContestRanking"`
		UserContestRankingHistory []struct {
			Attended       bool    `json:"attended"`
			ProblemsSolved int     `json:"problemsSolved"`
			TotalProblems  int     `json:"totalProblems"`
			Rating         float64 `json:"rating"`
			Ranking        int     `json:"ranking"`
			Contest        struct {
				Title     string `json:"title"`
				StartTime int64  `json:"startTime"`
			} `json:"contest"`
		} `json:"userContestRankingHistory"`
	} `json:"data"`
}

// ContestInfo fetches contest ranking and the five most recent attended
// contests. Returns (nil, nil) when the user never attended a contest.
func (c *LeetCodeClient) ContestInfo(ctx context.Context, handle string) (*models.ContestInfo, error) {
	start := time.Now()
	query := `
		query userContestRankingInfo($username: String!) {
			userContestRanking(username: $username) {
				attendedContestsCount
				rating
				globalRanking
				topPercentage
				badge {
					name
				}
			}
			userContestRankingHistory(username: $username) {
				attended
				problemsSolved
				totalProblems
				rating
				ranking
				contest {
					title
					startTime
				}
			}
		}`

	var resp lcContestResp
	err := c.doGraphQL(ctx, graphQLRequest{Query: query, Variables: map[string]interface{}{"username": handle}}, &resp)
	c.observe("contest_info", start, err)
	if err != nil {
		return nil, err
	}

	ranking := resp.Data.UserContestRanking
	if ranking == nil {
		return nil, nil
	}

	info := &models.ContestInfo{
		AttendedContestsCount: ranking.AttendedContestsCount,
		Rating:                int(ranking.Rating + 0.5),
		GlobalRanking:         ranking.GlobalRanking,
		TopPercentage:         ranking.TopPercentage,
	}
	if ranking.Badge != nil {
		info.Badge = ranking.Badge.Name
	}
	for _, h := range resp.Data.UserContestRankingHistory {
		if !h.Attended || len(info.RecentContests) == 5 {
			continue
		}
		info.RecentContests = append(info.RecentContests, models.ContestResult{
			Title:          h.Contest.Title,
			Rating:         int(h.Rating + 0.5),
			Ranking:        h.Ranking,
			ProblemsSolved: h.ProblemsSolved,
			TotalProblems:  h.TotalProblems,
			Date:           time.Unix(h.Contest.StartTime, 0).UTC().Format("2006-01-02"),
		})
	}
	return info, nil
}

func (c *LeetCodeClient) doGraphQL(ctx context.Context, payload graphQLRequest, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://leetcode.com")
	req.Header.Set("User-Agent", "Mozilla/5.0")
	if c.session != "" {
		req.Header.Set("Cookie", "LEETCODE_SESSION="+c.session+"; csrftoken="+c.csrfToken)
		req.Header.Set("X-CSRFToken", c.csrfToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("leetcode request failed: %s: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("leetcode response read failed: %s: %w", err, ErrUnavailable)
	}

	// A block page is HTML, not JSON.
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("leetcode returned non-JSON response (status %d): %w", resp.StatusCode, ErrUnavailable)
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("leetcode response decode failed: %s: %w", err, ErrUnavailable)
	}
	return nil
}

func (c *LeetCodeClient) observe(operation string, start time.Time, err error) {
	c.metrics.ObserveUpstreamFetch(string(models.PlatformLeetCode), operation, time.Since(start))
	if err != nil {
		c.metrics.IncUpstreamErrors(string(models.PlatformLeetCode), ErrorKind(err))
	}
}

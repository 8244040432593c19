package upstream

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cast"

	"codeboard/internal/models"
	"codeboard/internal/providers"
	"codeboard/internal/structures"
)

const gfgBaseURL = "https://www.geeksforgeeks.org"

var gfgDifficultyRe = regexp.MustCompile(`([A-Z]+)\s*\((\d+)\)`)

// GFGClient scrapes public GeeksforGeeks profile pages. GFG has no stats
// API, so this mirrors the profile page's score cards and streak widget.
type GFGClient struct {
	httpClient *http.Client
	baseURL    string
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewGFGClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) *GFGClient {
	return &GFGClient{
		httpClient: &http.Client{Timeout: conf.Upstream.FetchTimeout},
		baseURL:    gfgBaseURL,
		logger:     logger,
		metrics:    metrics,
	}
}

// Stats scrapes the profile page for the given handle.
func (c *GFGClient) Stats(ctx context.Context, handle string) (*models.GFGStats, error) {
	start := time.Now()
	stats, err := c.fetchStats(ctx, handle)
	c.metrics.ObserveUpstreamFetch("gfg", "stats", time.Since(start))
	if err != nil {
		c.metrics.IncUpstreamErrors("gfg", ErrorKind(err))
	}
	return stats, err
}

func (c *GFGClient) fetchStats(ctx context.Context, handle string) (*models.GFGStats, error) {
	url := fmt.Sprintf("%s/user/%s/", c.baseURL, handle)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gfg request failed: %s: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("gfg user %q: %w", handle, ErrUserNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gfg returned status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gfg profile parse failed: %s: %w", err, ErrUnavailable)
	}

	scoreCards := doc.Find(".scoreCard_head__nxXR8")
	if scoreCards.Length() == 0 {
		return nil, fmt.Errorf("gfg profile for %q has no score cards: %w", handle, ErrUserNotFound)
	}

	stats := &models.GFGStats{
		CodingScore:   scoreValue(scoreCards.Eq(0)),
		TotalSolved:   scoreValue(scoreCards.Eq(1)),
		ContestRating: scoreValue(scoreCards.Eq(2)),
		InstituteRank: strings.TrimSpace(doc.Find(".educationDetails_head_left_userRankContainer--text__wt81s b").Text()),
	}
	if stats.InstituteRank == "" {
		stats.InstituteRank = "N/A"
	}

	currentStreak := strings.SplitN(strings.TrimSpace(doc.Find(".circularProgressBar_head_mid_streakCnt__MFOF1").Text()), "/", 2)[0]
	stats.CurrentStreak = cast.ToInt(strings.TrimSpace(currentStreak))
	longestStreak := strings.ReplaceAll(doc.Find(".circularProgressBar_head_mid_streakCnt--glbLongStreak__viuBP").Text(), "/", "")
	stats.LongestStreak = cast.ToInt(strings.TrimSpace(longestStreak))

	doc.Find(".problemNavbar_head_nav--text__UaGCx").Each(func(_ int, sel *goquery.Selection) {
		match := gfgDifficultyRe.FindStringSubmatch(strings.TrimSpace(sel.Text()))
		if match == nil {
			return
		}
		count := cast.ToInt(match[2])
		switch match[1] {
		case "EASY":
			stats.EasySolved = count
		case "MEDIUM":
			stats.MediumSolved = count
		case "HARD":
			stats.HardSolved = count
		}
	})

	return stats, nil
}

func scoreValue(card *goquery.Selection) int {
	text := strings.TrimSpace(card.Find(".scoreCard_head_left--score__oSi_x").Text())
	return cast.ToInt(text)
}

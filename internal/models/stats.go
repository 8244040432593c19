package models

// LeetCodeStats is the solved-count/profile snapshot from the LeetCode
// GraphQL API.
type LeetCodeStats struct {
	TotalSolved  int `json:"totalSolved"`
	EasySolved   int `json:"easySolved"`
	MediumSolved int `json:"mediumSolved"`
	HardSolved   int `json:"hardSolved"`
	Ranking      int `json:"ranking"`
	Reputation   int `json:"reputation"`
}

type ContestResult struct {
	Title          string `json:"title"`
	Rating         int    `json:"rating"`
	Ranking        int    `json:"ranking"`
	ProblemsSolved int    `json:"problemsSolved"`
	TotalProblems  int    `json:"totalProblems"`
	Date           string `json:"date"`
}

type ContestInfo struct {
	AttendedContestsCount int             `json:"attendedContestsCount"`
	Rating                int             `json:"rating"`
	GlobalRanking         int             `json:"globalRanking"`
	TopPercentage         float64         `json:"topPercentage"`
	Badge                 string          `json:"badge,omitempty"`
	RecentContests        []ContestResult `json:"recentContests"`
}

// GFGStats is scraped from the GeeksforGeeks profile page.
type GFGStats struct {
	TotalSolved   int    `json:"totalSolved"`
	EasySolved    int    `json:"easySolved"`
	MediumSolved  int    `json:"mediumSolved"`
	HardSolved    int    `json:"hardSolved"`
	CodingScore   int    `json:"codingScore"`
	ContestRating int    `json:"contestRating"`
	InstituteRank string `json:"instituteRank"`
	CurrentStreak int    `json:"currentStreak"`
	LongestStreak int    `json:"longestStreak"`
}

// AggregatedStats bundles per-platform stats for one request. A failed
// platform leaves its field nil and records the reason in Errors; the
// other platforms are unaffected.
type AggregatedStats struct {
	LeetCode        *LeetCodeStats    `json:"leetcode,omitempty"`
	LeetCodeContest *ContestInfo      `json:"leetcodeContest,omitempty"`
	GFG             *GFGStats         `json:"gfg,omitempty"`
	Errors          map[string]string `json:"errors,omitempty"`
}

package dashboard

import (
	"sort"
	"time"

	"igboard/pkg/models"
)

// Panel identifies one dashboard view
type Panel string

const (
	PanelPosts   Panel = "posts"
	PanelMonthly Panel = "monthly"
	PanelYearly  Panel = "yearly"
	PanelSummary Panel = "summary"
)

// Panels lists the views in display order
var Panels = []Panel{PanelPosts, PanelMonthly, PanelYearly, PanelSummary}

// Bucket is one aggregation row, keyed by month or year
type Bucket struct {
	Key               string  `json:"key"` // "2026-08" or "2026"
	Posts             int     `json:"posts"`
	Reach             int     `json:"reach"`
	Likes             int     `json:"likes"`
	Comments          int     `json:"comments"`
	Shares            int     `json:"shares"`
	Saves             int     `json:"saves"`
	Engagement        int     `json:"engagement"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
}

// Report is the assembled dashboard for one account: the raw posts plus the
// derived aggregation panels
type Report struct {
	Account     models.AccountSummary     `json:"account"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Summary     models.PostInsightSummary `json:"summary"`
	Monthly     []Bucket                  `json:"monthly"`
	Yearly      []Bucket                  `json:"yearly"`
	Posts       []models.PostInsight      `json:"posts"`
}

// BuildReport assembles the dashboard report for an account from its posts
func BuildReport(account models.Account, posts []models.PostInsight) *Report {
	return &Report{
		Account:     account.Summarize(),
		GeneratedAt: time.Now().UTC(),
		Summary:     models.SummarizePosts(posts),
		Monthly:     AggregateMonthly(posts),
		Yearly:      AggregateYearly(posts),
		Posts:       posts,
	}
}

// AggregateMonthly buckets posts by calendar month, newest first
func AggregateMonthly(posts []models.PostInsight) []Bucket {
	return aggregate(posts, "2006-01")
}

// AggregateYearly buckets posts by calendar year, newest first
func AggregateYearly(posts []models.PostInsight) []Bucket {
	return aggregate(posts, "2006")
}

func aggregate(posts []models.PostInsight, layout string) []Bucket {
	byKey := make(map[string]*Bucket)
	rateSums := make(map[string]float64)
	for i := range posts {
		p := &posts[i]
		key := p.Date.Format(layout)
		b, ok := byKey[key]
		if !ok {
			b = &Bucket{Key: key}
			byKey[key] = b
		}
		b.Posts++
		b.Reach += p.Reach
		b.Likes += p.Likes
		b.Comments += p.Comments
		b.Shares += p.Shares
		b.Saves += p.Saves
		b.Engagement += p.Engagement()
		rateSums[key] += p.EngagementRate
	}

	out := make([]Bucket, 0, len(byKey))
	for key, b := range byKey {
		b.AvgEngagementRate = rateSums[key] / float64(b.Posts)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key > out[j].Key })
	return out
}

package models

import "time"

// MediaType classifies a post
type MediaType string

const (
	MediaTypeImage    MediaType = "IMAGE"
	MediaTypeVideo    MediaType = "VIDEO"
	MediaTypeCarousel MediaType = "CAROUSEL_ALBUM"
	MediaTypeStory    MediaType = "STORY"

	// MediaTypeAll is the identity filter, not a real media type
	MediaTypeAll = "All"
)

// MediaTypes lists every concrete media type
var MediaTypes = []MediaType{MediaTypeImage, MediaTypeVideo, MediaTypeCarousel, MediaTypeStory}

// IsValidMediaType reports whether s names a concrete media type
func IsValidMediaType(s string) bool {
	for _, mt := range MediaTypes {
		if string(mt) == s {
			return true
		}
	}
	return false
}

// PostInsight is one post's analytics snapshot. Immutable once received;
// the full list is replaced on each fetch, never patched.
type PostInsight struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Thumbnail string    `json:"thumbnail"`
	Type      MediaType `json:"type"`
	Caption   string    `json:"caption"`
	MediaURL  string    `json:"media_url"`
	Permalink string    `json:"permalink"`

	Reach             int     `json:"reach"`
	Likes             int     `json:"likes"`
	Comments          int     `json:"comments"`
	Shares            int     `json:"shares"`
	Saves             int     `json:"saves"`
	Views             int     `json:"views"`
	TotalInteractions int     `json:"total_interactions"`
	EngagementRate    float64 `json:"engagement_rate"`
	ViewRate          *float64 `json:"view_rate,omitempty"`

	// Video-only metrics
	VideoViewTotalTime *int     `json:"video_view_total_time,omitempty"`
	AvgWatchTime       *float64 `json:"avg_watch_time,omitempty"`

	// Carousel/story-only metrics
	Follows         *int `json:"follows,omitempty"`
	ProfileVisits   *int `json:"profile_visits,omitempty"`
	ProfileActivity *int `json:"profile_activity,omitempty"`

	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// Engagement is the sum of likes, comments, shares, and saves
func (p *PostInsight) Engagement() int {
	return p.Likes + p.Comments + p.Shares + p.Saves
}

// ComputeEngagementRate derives engagement/reach as a percentage, 0 when reach is 0
func (p *PostInsight) ComputeEngagementRate() float64 {
	if p.Reach == 0 {
		return 0
	}
	return float64(p.Engagement()) / float64(p.Reach) * 100
}

// ComputeViewRate derives views/reach as a percentage for video posts
func (p *PostInsight) ComputeViewRate() float64 {
	if p.Reach == 0 {
		return 0
	}
	return float64(p.Views) / float64(p.Reach) * 100
}

// FilterByMediaType returns the subset of posts matching mediaType, preserving
// order. MediaTypeAll is the identity filter. A nil or empty input yields an
// empty slice.
func FilterByMediaType(posts []PostInsight, mediaType string) []PostInsight {
	if len(posts) == 0 {
		return []PostInsight{}
	}
	if mediaType == MediaTypeAll {
		out := make([]PostInsight, len(posts))
		copy(out, posts)
		return out
	}
	out := make([]PostInsight, 0, len(posts))
	for _, p := range posts {
		if string(p.Type) == mediaType {
			out = append(out, p)
		}
	}
	return out
}

// BestPerformingPost identifies the post with the highest engagement rate
type BestPerformingPost struct {
	ID             string  `json:"id"`
	EngagementRate float64 `json:"engagement_rate"`
	Type           string  `json:"type"`
}

// PostInsightSummary aggregates the returned post list
type PostInsightSummary struct {
	TotalPosts            int                 `json:"total_posts"`
	AvgEngagementRate     float64             `json:"avg_engagement_rate"`
	TotalReach            int                 `json:"total_reach"`
	TotalEngagement       int                 `json:"total_engagement"`
	BestPerformingPost    *BestPerformingPost `json:"best_performing_post,omitempty"`
	MediaTypeDistribution map[string]int      `json:"media_type_distribution"`
}

// DateRange bounds a query window; either side may be empty
type DateRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// PostInsightFilters echoes the filters applied server-side
type PostInsightFilters struct {
	MediaType string `json:"media_type,omitempty"`
	Limit     *int   `json:"limit,omitempty"`
}

// PostInsightMeta describes the account and query behind a response
type PostInsightMeta struct {
	AccountID       string             `json:"account_id"`
	InstagramUserID string             `json:"instagram_user_id"`
	Username        string             `json:"username"`
	TotalPosts      int                `json:"total_posts"`
	DateRange       DateRange          `json:"date_range"`
	Filters         PostInsightFilters `json:"filters"`
}

// PostInsightResponse is the GET /api/v1/posts/insights payload
type PostInsightResponse struct {
	Posts   []PostInsight      `json:"posts"`
	Summary PostInsightSummary `json:"summary"`
	Meta    PostInsightMeta    `json:"meta"`
}

// PostInsightParams are the query parameters for the post insights endpoint.
// AccountID is required; the rest are serialized only when non-empty.
type PostInsightParams struct {
	AccountID string
	FromDate  string // YYYY-MM-DD
	ToDate    string // YYYY-MM-DD
	MediaType string
	Limit     int
}

// Merge overlays the non-zero fields of override onto a copy of p
func (p PostInsightParams) Merge(override *PostInsightParams) PostInsightParams {
	if override == nil {
		return p
	}
	if override.AccountID != "" {
		p.AccountID = override.AccountID
	}
	if override.FromDate != "" {
		p.FromDate = override.FromDate
	}
	if override.ToDate != "" {
		p.ToDate = override.ToDate
	}
	if override.MediaType != "" {
		p.MediaType = override.MediaType
	}
	if override.Limit > 0 {
		p.Limit = override.Limit
	}
	return p
}

// SummarizePosts computes the aggregate summary for a post list the same way
// the backend does: avg engagement rate is the mean of the per-post rates.
func SummarizePosts(posts []PostInsight) PostInsightSummary {
	summary := PostInsightSummary{
		TotalPosts:            len(posts),
		MediaTypeDistribution: make(map[string]int),
	}
	if len(posts) == 0 {
		return summary
	}

	var rateSum float64
	var best *BestPerformingPost
	for i := range posts {
		p := &posts[i]
		summary.TotalReach += p.Reach
		summary.TotalEngagement += p.Engagement()
		summary.MediaTypeDistribution[string(p.Type)]++
		rateSum += p.EngagementRate
		if best == nil || p.EngagementRate > best.EngagementRate {
			best = &BestPerformingPost{
				ID:             p.ID,
				EngagementRate: p.EngagementRate,
				Type:           string(p.Type),
			}
		}
	}
	summary.AvgEngagementRate = rateSum / float64(len(posts))
	summary.BestPerformingPost = best
	return summary
}

package reddit

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/wonny/investo/pkg/config"
	"github.com/wonny/investo/pkg/httputil"
	"github.com/wonny/investo/pkg/logger"
)

// MaxLimit is the largest page the public listing returns
const MaxLimit = 100

// Client searches subreddits through the public JSON listings
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	userAgent  string
}

// NewClient creates a new Reddit client
func NewClient(httpClient *httputil.Client, cfg config.RedditConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.Component("reddit"),
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
	}
}

// Post is one search hit
type Post struct {
	ID          string
	Title       string
	Body        string
	Score       int
	NumComments int
	Subreddit   string
	CreatedAt   time.Time
	Permalink   string
}

// URL is the absolute link to the post
func (p Post) URL() string {
	return "https://www.reddit.com" + p.Permalink
}

type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID          string  `json:"id"`
				Title       string  `json:"title"`
				Selftext    string  `json:"selftext"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
				Subreddit   string  `json:"subreddit"`
				CreatedUTC  float64 `json:"created_utc"`
				Permalink   string  `json:"permalink"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Search returns the newest posts in subreddit matching query
func (c *Client) Search(ctx context.Context, subreddit, query string, limit int) ([]Post, error) {
	if limit <= 0 || limit > MaxLimit {
		limit = MaxLimit
	}

	params := url.Values{
		"q":           {query},
		"restrict_sr": {"1"},
		"sort":        {"new"},
		"limit":       {strconv.Itoa(limit)},
		"raw_json":    {"1"},
	}
	endpoint := fmt.Sprintf("%s/r/%s/search.json?%s", c.baseURL, url.PathEscape(subreddit), params.Encode())

	var resp listing
	headers := map[string]string{"User-Agent": c.userAgent}
	if err := c.httpClient.GetJSON(ctx, endpoint, headers, &resp); err != nil {
		return nil, fmt.Errorf("reddit search r/%s: %w", subreddit, err)
	}

	posts := make([]Post, 0, len(resp.Data.Children))
	for _, child := range resp.Data.Children {
		d := child.Data
		sub := d.Subreddit
		if sub == "" {
			sub = subreddit
		}
		posts = append(posts, Post{
			ID:          d.ID,
			Title:       d.Title,
			Body:        d.Selftext,
			Score:       d.Score,
			NumComments: d.NumComments,
			Subreddit:   sub,
			CreatedAt:   time.Unix(int64(d.CreatedUTC), 0).UTC(),
			Permalink:   d.Permalink,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"subreddit": subreddit,
		"query":     query,
		"posts":     len(posts),
	}).Debug("Reddit search completed")
	return posts, nil
}

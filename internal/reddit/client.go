package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/polybitrockzz/reddit-video-creator/internal/tts"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is Reddit's public JSON front end.
	DefaultBaseURL = "https://www.reddit.com"

	// DefaultUserAgent matches the shipped configuration file.
	DefaultUserAgent = "RedditVideoCreator:v1.0 (by /u/your_username)"

	maxResponseSize = 16 << 20
)

// Client fetches posts from Reddit's public JSON endpoints.
type Client struct {
	baseURL    string
	userAgent  string
	limit      int
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// ClientConfig holds fetch client configuration.
type ClientConfig struct {
	BaseURL           string        // defaults to DefaultBaseURL
	UserAgent         string        // defaults to DefaultUserAgent
	CommentLimit      int           // comments requested per fetch, defaults to 100
	Timeout           time.Duration // request timeout, defaults to 15s
	RequestsPerMinute int           // defaults to 30
	HTTPClient        *http.Client
	Logger            *log.Logger
}

// NewClient creates a new fetch client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.CommentLimit <= 0 {
		cfg.CommentLimit = 100
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 30
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		limit:      cfg.CommentLimit,
		httpClient: cfg.HTTPClient,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		logger:     cfg.Logger.WithPrefix("reddit"),
	}
}

// listing is one element of the two-element array Reddit returns for a
// comments page: the post listing and the comment listing.
type listing struct {
	Data struct {
		Children []thing `json:"children"`
	} `json:"data"`
}

type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type postData struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	Selftext    string  `json:"selftext"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Permalink   string  `json:"permalink"`
	CreatedUTC  float64 `json:"created_utc"`
}

type commentData struct {
	ID            string  `json:"id"`
	Author        string  `json:"author"`
	Body          string  `json:"body"`
	Score         int     `json:"score"`
	CreatedUTC    float64 `json:"created_utc"`
	IsSubmitter   bool    `json:"is_submitter"`
	ParentID      string  `json:"parent_id"`
	Stickied      bool    `json:"stickied"`
	Distinguished string  `json:"distinguished"`
}

// Fetch retrieves a post and its top-level comments. ref may be anything
// ParsePostID accepts. Every failure is a FETCH_ERROR; nothing is retried.
func (c *Client) Fetch(ctx context.Context, ref string) (*PostRecord, error) {
	id, err := ParsePostID(ref)
	if err != nil {
		return nil, fetchError("invalid post reference", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fetchError("rate limit wait cancelled", err)
	}

	params := url.Values{}
	params.Set("raw_json", "1")
	params.Set("sort", "top")
	params.Set("limit", strconv.Itoa(c.limit))
	endpoint := fmt.Sprintf("%s/comments/%s.json?%s", c.baseURL, id, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fetchError("failed to create request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Fetching post", "id", id, "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fetchError("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fetchError(fmt.Sprintf("reddit returned status %d", resp.StatusCode), nil).
			WithContext("status", resp.StatusCode).
			WithContext("body", strings.TrimSpace(string(body)))
	}

	var listings []listing
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&listings); err != nil {
		return nil, fetchError("failed to decode response", err)
	}

	post, err := parseListings(listings)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Fetched post", "id", post.ID, "subreddit", post.Subreddit, "comments", len(post.Comments))
	return post, nil
}

func parseListings(listings []listing) (*PostRecord, error) {
	if len(listings) < 1 || len(listings[0].Data.Children) == 0 {
		return nil, fetchError("response contains no post", nil)
	}

	first := listings[0].Data.Children[0]
	if first.Kind != "t3" {
		return nil, fetchError(fmt.Sprintf("unexpected post kind %q", first.Kind), nil)
	}
	var p postData
	if err := json.Unmarshal(first.Data, &p); err != nil {
		return nil, fetchError("failed to decode post", err)
	}

	post := &PostRecord{
		ID:          p.ID,
		Title:       p.Title,
		Author:      p.Author,
		Subreddit:   p.Subreddit,
		Body:        p.Selftext,
		Score:       p.Score,
		NumComments: p.NumComments,
		Permalink:   p.Permalink,
		CreatedUTC:  unixTime(p.CreatedUTC),
		Comments:    []CommentRecord{},
	}

	if len(listings) < 2 {
		return post, nil
	}
	for _, child := range listings[1].Data.Children {
		// "more" stubs only hold ids of comments not included in the page
		if child.Kind != "t1" {
			continue
		}
		var cd commentData
		if err := json.Unmarshal(child.Data, &cd); err != nil {
			return nil, fetchError("failed to decode comment", err)
		}
		if cd.Stickied && cd.Distinguished == "moderator" {
			continue
		}
		post.Comments = append(post.Comments, CommentRecord{
			ID:            cd.ID,
			Author:        cd.Author,
			Body:          cd.Body,
			Score:         cd.Score,
			CreatedUTC:    unixTime(cd.CreatedUTC),
			IsSubmitter:   cd.IsSubmitter,
			ParentID:      cd.ParentID,
			Stickied:      cd.Stickied,
			Distinguished: cd.Distinguished,
		})
	}
	return post, nil
}

func unixTime(sec float64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}

func fetchError(msg string, cause error) *tts.TTSError {
	return tts.NewTTSError(tts.ErrorCodeFetch, msg, cause)
}

package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var (
	ErrVideoNotFound    = errors.New("video not found")
	ErrCommentsDisabled = errors.New("comments are disabled for this video")
	ErrInvalidVideoURL  = errors.New("invalid YouTube video URL")

	videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// CommentSource returns the raw comment texts of a video in API order.
type CommentSource interface {
	FetchComments(ctx context.Context, videoID string) ([]string, error)
}

type YouTubeClient struct {
	service     *youtube.Service
	maxComments int64
	backoff     time.Duration
}

type YouTubeConfig struct {
	APIKey      string
	AccessToken string
	MaxComments int
}

// NewYouTubeClient builds a Data API client. An access token, when present,
// takes precedence over the API key. Extra options are appended last.
func NewYouTubeClient(ctx context.Context, cfg YouTubeConfig, extra ...option.ClientOption) (*YouTubeClient, error) {
	opts := []option.ClientOption{option.WithUserAgent(USER_AGENT)}
	switch {
	case cfg.AccessToken != "":
		opts = append(opts, option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, errors.New("[YouTubeClient] YOUTUBE_API_KEY or YOUTUBE_ACCESS_TOKEN is required")
	}
	opts = append(opts, extra...)

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("[YouTubeClient] failed to create service: %w", err)
	}

	maxComments := cfg.MaxComments
	if maxComments <= 0 || maxComments > MAX_PAGE_SIZE {
		maxComments = MAX_PAGE_SIZE
	}

	return &YouTubeClient{
		service:     service,
		maxComments: int64(maxComments),
		backoff:     INITIAL_BACKOFF,
	}, nil
}

// FetchComments returns the top-level comments of one relevance-ordered page.
func (yc *YouTubeClient) FetchComments(ctx context.Context, videoID string) ([]string, error) {
	start := time.Now()

	resp, err := yc.listWithRetry(ctx, videoID)
	if err != nil {
		return nil, classifyAPIError(err)
	}

	comments := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		comments = append(comments, item.Snippet.TopLevelComment.Snippet.TextOriginal)
	}

	slog.Info("[YouTubeClient] Fetched comments",
		slog.String("video_id", videoID),
		slog.Int("count", len(comments)),
		slog.Duration("elapsed", time.Since(start)))

	return comments, nil
}

func (yc *YouTubeClient) listWithRetry(ctx context.Context, videoID string) (*youtube.CommentThreadListResponse, error) {
	backoff := yc.backoff
	var lastErr error

	for attempt := 0; attempt < MAX_RETRIES; attempt++ {
		resp, err := yc.service.CommentThreads.List([]string{"snippet"}).
			VideoId(videoID).
			MaxResults(yc.maxComments).
			Order("relevance").
			TextFormat("plainText").
			Context(ctx).
			Do()
		if err == nil {
			return resp, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err

		slog.Warn("[YouTubeClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", backoff),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > MAX_BACKOFF {
			backoff = MAX_BACKOFF
		}
	}

	return nil, fmt.Errorf("[YouTubeClient] max retries reached: %w", lastErr)
}

func isRetryable(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code >= http.StatusInternalServerError || apiErr.Code == http.StatusTooManyRequests
	}
	return false
}

func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.Code {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrVideoNotFound, apiErr.Message)
	case http.StatusForbidden:
		for _, item := range apiErr.Errors {
			if item.Reason == "commentsDisabled" {
				return ErrCommentsDisabled
			}
		}
	}
	return err
}

// ParseVideoID accepts a bare video id or a watch, youtu.be, shorts or embed
// URL and returns the video id.
func ParseVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if videoIDPattern.MatchString(raw) {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", ErrInvalidVideoURL
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "music.youtube.com":
		if u.Path == "/watch" {
			id = u.Query().Get("v")
			break
		}
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/", "/v/"} {
			if strings.HasPrefix(u.Path, prefix) {
				id = strings.SplitN(strings.TrimPrefix(u.Path, prefix), "/", 2)[0]
				break
			}
		}
	}

	if !videoIDPattern.MatchString(id) {
		return "", ErrInvalidVideoURL
	}
	return id, nil
}

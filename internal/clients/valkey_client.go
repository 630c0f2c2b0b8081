package clients

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"
)

const VALKEY_COMMENTS_KEY_PREFIX = "youtube:comments:"

// CommentCache stores fetched comment batches keyed by video id.
type CommentCache interface {
	Get(ctx context.Context, videoID string) ([]string, bool, error)
	Set(ctx context.Context, videoID string, comments []string) error
}

type ValkeyConfig struct {
	Address  string
	Password string
	UseTLS   bool
	TTL      time.Duration
}

type ValkeyClient struct {
	Client valkey.Client
	ttl    time.Duration
}

func NewValkeyClient(ctx context.Context, cfg ValkeyConfig) (*ValkeyClient, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Address},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", cfg.Address))

	return &ValkeyClient{Client: client, ttl: cfg.TTL}, nil
}

func (vc *ValkeyClient) Close() {
	vc.Client.Close()
}

func (vc *ValkeyClient) Get(ctx context.Context, videoID string) ([]string, bool, error) {
	raw, err := vc.DoWithRetry(ctx, vc.Client.B().Get().Key(commentsKey(videoID)).Build(), 3).ToString()
	if valkey.IsValkeyNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var comments []string
	if err := json.Unmarshal([]byte(raw), &comments); err != nil {
		return nil, false, fmt.Errorf("[ValkeyClient] corrupt cache entry for %s: %w", videoID, err)
	}
	return comments, true, nil
}

func (vc *ValkeyClient) Set(ctx context.Context, videoID string, comments []string) error {
	body, err := json.Marshal(comments)
	if err != nil {
		return err
	}

	cmd := vc.Client.B().Set().Key(commentsKey(videoID)).Value(string(body)).ExSeconds(int64(vc.ttl.Seconds())).Build()
	return vc.DoWithRetry(ctx, cmd, 3).Error()
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, completed)
		if err := result.Error(); err == nil || valkey.IsValkeyNil(err) || !isConnectionError(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func commentsKey(videoID string) string {
	return VALKEY_COMMENTS_KEY_PREFIX + videoID
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}

// CachedSource reads through a CommentCache before asking the wrapped source.
// Cache failures are logged and never fail the fetch.
type CachedSource struct {
	source CommentSource
	cache  CommentCache
}

func NewCachedSource(source CommentSource, cache CommentCache) *CachedSource {
	return &CachedSource{source: source, cache: cache}
}

func (cs *CachedSource) FetchComments(ctx context.Context, videoID string) ([]string, error) {
	comments, ok, err := cs.cache.Get(ctx, videoID)
	if err != nil {
		slog.Warn("[CachedSource] Cache read failed",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
	}
	if ok {
		slog.Debug("[CachedSource] Cache hit", slog.String("video_id", videoID))
		return comments, nil
	}

	comments, err = cs.source.FetchComments(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if err := cs.cache.Set(ctx, videoID, comments); err != nil {
		slog.Warn("[CachedSource] Cache write failed",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
	}
	return comments, nil
}

package clients

import "time"

const (
	MAX_RETRIES     = 3
	INITIAL_BACKOFF = 1 * time.Second
	MAX_BACKOFF     = 8 * time.Second
	MAX_PAGE_SIZE   = 100
	USER_AGENT      = "commentlens/1.0 (+https://github.com/spacesedan/commentlens)"
)

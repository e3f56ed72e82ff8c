package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const idempotencyHeader = "Idempotency-Key"

// replayTTL bounds how long a recorded response can be replayed. A day
// comfortably covers client retry loops around checkout and booking
// submission without holding stale responses forever.
const replayTTL = 24 * time.Hour

// recordedResponse is the replayable outcome of a keyed request.
type recordedResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
	Headers    http.Header     `json:"headers"`
}

// captureWriter tees the response body so it can be recorded after the
// handler runs.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the recorded response for a repeated
// Idempotency-Key, so a client retrying a booking or checkout submission
// cannot create the resource twice. Requests without the header, and
// non-mutating methods, pass through untouched.
func IdempotencyMiddleware(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		storeKey := "idempotency:" + key

		recorded, err := loadRecorded(ctx, redisClient, storeKey)
		if err != nil && err != redis.Nil {
			// Store trouble must not block the request; it just loses its
			// replay protection for this attempt.
			c.Next()
			return
		}

		if recorded != nil {
			for name, values := range recorded.Headers {
				for _, v := range values {
					c.Header(name, v)
				}
			}
			c.Data(recorded.StatusCode, "application/json", recorded.Body)
			c.Abort()
			return
		}

		w := &captureWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		c.Next()

		// Server errors are not recorded; the client should retry those
		// against live state.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 500 {
			recorded := recordedResponse{
				StatusCode: c.Writer.Status(),
				Body:       w.body.Bytes(),
				Headers:    replayableHeaders(c),
			}
			_ = storeRecorded(ctx, redisClient, storeKey, &recorded)
		}
	}
}

func loadRecorded(ctx context.Context, client *redis.Client, key string) (*recordedResponse, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var recorded recordedResponse
	if err := json.Unmarshal(data, &recorded); err != nil {
		return nil, err
	}

	return &recorded, nil
}

func storeRecorded(ctx context.Context, client *redis.Client, key string, recorded *recordedResponse) error {
	data, err := json.Marshal(recorded)
	if err != nil {
		return err
	}

	return client.Set(ctx, key, data, replayTTL).Err()
}

// replayableHeaders picks the headers worth replaying; only the content
// type matters for our JSON responses.
func replayableHeaders(c *gin.Context) http.Header {
	headers := make(http.Header)
	if ct := c.Writer.Header().Get("Content-Type"); ct != "" {
		headers.Set("Content-Type", ct)
	}
	return headers
}

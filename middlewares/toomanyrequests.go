package middlewares

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bulwarkweb/bulwark/internal"
)

// TooManyRequests returns middleware that converts TooManyRequestsError into
// a throttle response. JSON and AJAX clients get a 429 payload with the wait
// time in seconds; browser clients get the message flashed to the session and
// a redirect back to where they came from. Both carry a Retry-After header.
func TooManyRequests() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var tmr *TooManyRequestsError
			if !errors.As(err, &tmr) {
				return err
			}
			if c.Written() {
				return nil
			}

			message := "Too many requests. Please try again " + retryAfterPhrase(tmr.RetryAfter) + "."
			c.SetHeader("Retry-After", strconv.Itoa(tmr.RetryAfter))

			if c.WantsJSON() {
				c.SetHeader("X-RateLimit-Limit", "0")
				c.SetHeader("X-RateLimit-Remaining", "0")
				return c.JSON(http.StatusTooManyRequests, map[string]any{
					"error":       "Too Many Requests",
					"message":     message,
					"retry_after": tmr.RetryAfter,
				})
			}

			if sess, serr := c.Session(); serr == nil && sess != nil {
				sess.Flash("error", message)
				sess.Flash("errors", map[string][]string{"throttle": {message}})
			}

			return c.RedirectBack(http.StatusFound, "/")
		}
	}
}

// retryAfterPhrase renders a wait in seconds as human-readable text:
// "in 45 seconds", "in 1 second", "in 2 minutes". Partial minutes round up.
func retryAfterPhrase(seconds int) string {
	if seconds < 60 {
		return "in " + strconv.Itoa(seconds) + " " + pluralize("second", seconds)
	}
	minutes := (seconds + 59) / 60
	return "in " + strconv.Itoa(minutes) + " " + pluralize("minute", minutes)
}

func pluralize(unit string, n int) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

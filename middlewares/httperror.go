package middlewares

import (
	"errors"
	"net/http"

	"github.com/bulwarkweb/bulwark/internal"
)

// statusCoder is any failure that knows its HTTP status. Both the framework's
// HTTPError and the typed middleware errors satisfy it.
type statusCoder interface {
	error
	StatusCode() int
}

// reasonPhraser optionally overrides the standard status text.
type reasonPhraser interface {
	ReasonPhrase() string
}

// headerCarrier optionally supplies extra response headers.
type headerCarrier interface {
	HTTPHeaders() map[string]string
}

// HTTPErrors returns middleware that converts any error exposing an HTTP
// status code into a plain-text response with that status. Reason phrase
// stands in when the error message is empty, and extra headers from the
// error are applied before the body.
//
// Place this middleware outside the more specific translators so they get
// first pick of their own error kinds.
func HTTPErrors() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var sc statusCoder
			if !errors.As(err, &sc) {
				return err
			}
			if c.Written() {
				return nil
			}

			if hc, ok := sc.(headerCarrier); ok {
				for name, value := range hc.HTTPHeaders() {
					c.SetHeader(name, value)
				}
			}

			body := sc.Error()
			if body == "" {
				body = reasonFor(sc)
			}

			return c.String(sc.StatusCode(), body)
		}
	}
}

// reasonFor resolves the reason phrase for a status-carrying error, falling
// back to the standard status text.
func reasonFor(sc statusCoder) string {
	if rp, ok := sc.(reasonPhraser); ok {
		if phrase := rp.ReasonPhrase(); phrase != "" {
			return phrase
		}
	}
	return http.StatusText(sc.StatusCode())
}

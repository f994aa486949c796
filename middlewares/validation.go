package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bulwarkweb/bulwark/internal"
)

// sensitiveFields are substrings that mark a form field as secret. Matching
// is case-insensitive and applies to nested maps too.
var sensitiveFields = []string{
	"password",
	"password_confirmation",
	"current_password",
	"new_password",
	"token",
	"secret",
	"api_key",
	"credit_card",
	"card_number",
	"cvv",
	"cvc",
	"ssn",
}

// Validation returns middleware that converts ValidationError into a
// user-facing response. JSON and AJAX clients get a 422 payload with the
// field error map; browser clients get the errors, the filtered old input,
// and the first message flashed to the session, followed by a redirect back
// to the submitting page.
func Validation() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				return err
			}
			if c.Written() {
				return nil
			}

			if c.WantsJSON() {
				return c.JSON(http.StatusUnprocessableEntity, map[string]any{
					"message": ve.Error(),
					"errors":  ve.Fields,
				})
			}

			if sess, serr := c.Session(); serr == nil && sess != nil {
				sess.Flash("errors", ve.Fields)
				sess.Flash("old", FilterSensitive(formValues(c.Request())))
				if msg := ve.FirstMessage(); msg != "" {
					sess.Flash("error", msg)
				}
			}

			return c.RedirectBack(http.StatusFound, "/")
		}
	}
}

// formValues flattens the parsed request body into a map, keeping only the
// first value per field.
func formValues(r *http.Request) map[string]any {
	_ = r.ParseForm()

	values := make(map[string]any, len(r.PostForm))
	for name, vals := range r.PostForm {
		if len(vals) > 0 {
			values[name] = vals[0]
		}
	}
	return values
}

// FilterSensitive returns a copy of the input with secret fields removed.
// Nested maps are filtered recursively; other values pass through as-is.
func FilterSensitive(input map[string]any) map[string]any {
	filtered := make(map[string]any, len(input))
	for name, value := range input {
		if isSensitiveField(name) {
			continue
		}
		if nested, ok := value.(map[string]any); ok {
			filtered[name] = FilterSensitive(nested)
			continue
		}
		filtered[name] = value
	}
	return filtered
}

func isSensitiveField(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range sensitiveFields {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

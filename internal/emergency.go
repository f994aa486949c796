package internal

import (
	"fmt"
	"net/http"
	"runtime"
	"strconv"
)

// emergencyTraceLimit bounds the number of stack frames included in
// emergency payloads.
const emergencyTraceLimit = 10

// EmergencyResponse builds minimal failure responses when every rendering
// tier above it has failed. It depends on nothing that can itself fail:
// bodies are assembled by plain string concatenation, JSON escaping is done
// by hand, and the trace is bounded.
type EmergencyResponse struct {
	debug bool
}

// NewEmergencyResponse creates an emergency builder. Debug mode includes the
// error message and a bounded stack trace; production mode exposes nothing.
func NewEmergencyResponse(debug bool) *EmergencyResponse {
	return &EmergencyResponse{debug: debug}
}

// Render writes an emergency response, choosing JSON or HTML by the shared
// content negotiation predicate. Write errors are ignored; this is the last
// stop before the static fallback.
func (e *EmergencyResponse) Render(w http.ResponseWriter, r *http.Request, err error) {
	if WantsJSON(r) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(e.JSON(err)))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(e.HTML(err)))
}

// JSON builds the emergency JSON body. Debug payloads carry the exception
// class, message, origin frame, and the failure's own bounded trace when it
// captured one.
func (e *EmergencyResponse) JSON(err error) string {
	if !e.debug {
		return `{"message":"Server Error"}`
	}

	trace := errTrace(err)
	origin := ""
	if len(trace) > 0 {
		origin = trace[0]
	}

	body := `{"exception":` + jsonString(fmt.Sprintf("%T", err)) +
		`,"message":` + jsonString(errMessage(err)) +
		`,"origin":` + jsonString(origin) + `,"trace":[`
	for i, frame := range trace {
		if i > 0 {
			body += ","
		}
		body += jsonString(frame)
	}
	return body + `]}`
}

// HTML builds the emergency HTML body.
func (e *EmergencyResponse) HTML(err error) string {
	if !e.debug {
		return "<!DOCTYPE html><html><head><title>Server Error</title></head>" +
			"<body><h1>Server Error</h1></body></html>"
	}

	trace := errTrace(err)
	origin := ""
	if len(trace) > 0 {
		origin = trace[0]
	}

	body := "<!DOCTYPE html><html><head><title>Server Error</title></head><body>" +
		"<h1>" + htmlEscape(fmt.Sprintf("%T", err)) + "</h1>" +
		"<p>" + htmlEscape(errMessage(err)) + "</p>" +
		"<p><code>" + htmlEscape(origin) + "</code></p><pre>"
	for _, frame := range trace {
		body += htmlEscape(frame) + "\n"
	}
	return body + "</pre></body></html>"
}

// WriteStaticFallback writes the fixed last-resort response. It takes no
// input from the failure and cannot itself fail in an observable way.
func WriteStaticFallback(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte("Internal Server Error"))
}

func errMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// captureFrames returns up to limit formatted stack frames, skipping the
// innermost skip callers.
func captureFrames(skip, limit int) []string {
	pcs := make([]uintptr, limit)
	n := runtime.Callers(skip, pcs)
	if n == 0 {
		return nil
	}

	out := make([]string, 0, n)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			out = append(out, frame.File+":"+strconv.Itoa(frame.Line)+" "+frame.Function)
		}
		if !more {
			break
		}
	}
	return out
}

// jsonString encodes s as a JSON string literal without encoding/json.
func jsonString(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for _, r := range s {
		switch r {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\t':
			out = append(out, '\\', 't')
		default:
			if r < 0x20 {
				out = append(out, []byte("\\u00")...)
				const hex = "0123456789abcdef"
				out = append(out, hex[r>>4], hex[r&0xf])
			} else {
				out = append(out, []byte(string(r))...)
			}
		}
	}
	return string(append(out, '"'))
}

// htmlEscape escapes the characters that matter in element content.
func htmlEscape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			out = append(out, []byte("&lt;")...)
		case '>':
			out = append(out, []byte("&gt;")...)
		case '&':
			out = append(out, []byte("&amp;")...)
		case '"':
			out = append(out, []byte("&quot;")...)
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}

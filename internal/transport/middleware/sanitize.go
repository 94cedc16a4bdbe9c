package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// maxScrubDepth bounds recursion over untrusted payloads. Anything nested
// deeper is rejected outright instead of risking unbounded descent.
const maxScrubDepth = 32

var errPayloadTooDeep = errors.New("payload exceeds maximum nesting depth")

// isReservedKey reports whether a key could be interpreted as a query
// operator or path expression by a document store.
func isReservedKey(k string) bool {
	return strings.HasPrefix(k, "$") || strings.Contains(k, ".")
}

// Scrub walks a decoded JSON value depth-first and deletes every reserved
// key in place. Arrays and objects are traversed; scalars pass through.
func Scrub(v interface{}) error {
	return scrubValue(v, 0)
}

func scrubValue(v interface{}, depth int) error {
	if depth > maxScrubDepth {
		return errPayloadTooDeep
	}
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			if isReservedKey(k) {
				delete(t, k)
				continue
			}
			if err := scrubValue(val, depth+1); err != nil {
				return err
			}
		}
	case []interface{}:
		for _, item := range t {
			if err := scrubValue(item, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// Sanitize strips operator-like keys from JSON bodies and query parameters
// before any handler sees them. Malformed JSON passes through untouched; the
// typed decode at the handler produces the caller-visible error. Only a
// payload deeper than the recursion cap is rejected here.
func Sanitize(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if scrubbed := scrubQuery(r); scrubbed {
				logger.Warn("dropped reserved query parameters", "path", r.URL.Path)
			}

			if r.Body != nil && r.ContentLength != 0 {
				bodyBytes, err := io.ReadAll(r.Body)
				if err != nil {
					http.Error(w, `{"error":"failed to read request body"}`, http.StatusBadRequest)
					return
				}
				r.Body.Close()

				var decoded interface{}
				if err := json.Unmarshal(bodyBytes, &decoded); err != nil {
					// Not JSON we can interpret: nothing to scrub.
					r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
					next.ServeHTTP(w, r)
					return
				}

				if err := Scrub(decoded); err != nil {
					logger.Warn("rejected overly nested payload", "path", r.URL.Path)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusBadRequest)
					io.WriteString(w, `{"error":"request body is nested too deeply"}`)
					return
				}

				clean, err := json.Marshal(decoded)
				if err != nil {
					r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
					next.ServeHTTP(w, r)
					return
				}

				r.Body = io.NopCloser(bytes.NewReader(clean))
				r.ContentLength = int64(len(clean))
			}

			next.ServeHTTP(w, r)
		})
	}
}

func scrubQuery(r *http.Request) bool {
	values := r.URL.Query()
	dropped := false
	for k := range values {
		if isReservedKey(k) {
			values.Del(k)
			dropped = true
		}
	}
	if dropped {
		r.URL.RawQuery = values.Encode()
	}
	return dropped
}

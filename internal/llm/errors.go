package llm

import "fmt"

// UpstreamError reports a failed gateway call: non-2xx status, transport
// failure, malformed response envelope, or missing credential. The
// upstream message is carried through verbatim for the caller to show.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm gateway: status %d: %s", e.StatusCode, e.Message)
	}
	return "llm gateway: " + e.Message
}

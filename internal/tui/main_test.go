package tui

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies stream goroutines do not outlive the tests. Persistent
// runtime and HTTP transport goroutines are filtered out.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("net/http.(*http2clientConnReadLoop).run"),
	)
}

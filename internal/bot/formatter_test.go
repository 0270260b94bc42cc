package bot

import (
	"testing"
	"time"

	"overseer/internal/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(t *testing.T, responses []Response) string {
	require.Len(t, responses, 1)
	response, ok := responses[0].(ResponseString)
	require.True(t, ok, "expected a plain text response, got %T", responses[0])
	return response.string
}

func TestStatusMessage(t *testing.T) {
	tests := []struct {
		name   string
		result status.StatusResult
		want   string
	}{
		{"found", status.Found("Degraded Performance"), "**Fallout 76** is currently: **Degraded Performance**"},
		{"not listed", status.NotListed("Fallout 76"), "is not listed on the status page"},
		{"indeterminate", status.Indeterminate(), "could not determine its status"},
		{"timeout", status.Failure(status.FailureTimeout, "deadline"), "took too long to load"},
		{"engine unavailable", status.Failure(status.FailureRenderEngineUnavailable, "no chrome"), "status checker is not available"},
		{"network error", status.Failure(status.FailureNetworkError, "dns"), "couldn't reach the status page"},
		{"unknown", status.Failure(status.FailureUnknown, "panic"), "error interacting with the status page"},
	}

	seen := map[string]string{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := text(t, StatusMessage(tt.result, testQuery))
			assert.Contains(t, content, tt.want)
			if other, ok := seen[content]; ok {
				t.Errorf("%s and %s get the same reply", tt.name, other)
			}
			seen[content] = tt.name
		})
	}
	assert.Len(t, seen, len(tests))
}

func TestStatusMessage_FailureDetailStaysInLogs(t *testing.T) {
	content := text(t, StatusMessage(status.Failure(status.FailureNetworkError, "dial tcp 10.0.0.1:443"), testQuery))
	assert.NotContains(t, content, "10.0.0.1")
}

func TestStatusRateLimited(t *testing.T) {
	assert.Contains(t, text(t, StatusRateLimited(1500*time.Millisecond)), "try again in 2 seconds")
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `\*\*Boss\*\* \_x\_ \`+"`"+`y\`+"`", escapeMarkdown("**Boss** _x_ `y`"))
}

func TestChunk(t *testing.T) {
	assert.Equal(t, []string{"aaa\nbb", "cccc"}, chunk([]string{"aaa", "bb", "cccc"}, 6))
	assert.Empty(t, chunk(nil, 10))
}

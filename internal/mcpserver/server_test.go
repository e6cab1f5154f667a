package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshea00/youtubesummary/internal/pipeline"
)

// countingRunner stands in for the pipeline and records invocations.
type countingRunner struct {
	calls int
	err   error
}

func (c *countingRunner) run(ctx context.Context, opts pipeline.Options) (*pipeline.SummaryResult, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &pipeline.SummaryResult{
		VideoID:    "dQw4w9WgXcQ",
		VideoURL:   opts.URL,
		Transcript: "never gonna give you up never gonna let you down",
		Summary:    "A timeless classic about commitment.",
		ModelUsed:  "claude-sonnet-4-20250514",
	}, nil
}

// processLines runs the server over the given input lines and decodes
// every response written to the output stream.
func processLines(t *testing.T, s *Server, lines ...string) []map[string]any {
	t.Helper()
	var out bytes.Buffer
	input := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, s.ProcessStream(context.Background(), input, &out))

	var resps []map[string]any
	dec := json.NewDecoder(&out)
	for dec.More() {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		resps = append(resps, m)
	}
	return resps
}

func TestListTools(t *testing.T) {
	runner := &countingRunner{}
	resps := processLines(t, New(runner.run),
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)

	require.Len(t, resps, 1)
	resp := resps[0]
	assert.Equal(t, "2.0", resp["jsonrpc"])
	assert.Equal(t, float64(1), resp["id"])
	require.NotContains(t, resp, "error")

	result := resp["result"].(map[string]any)
	tools := result["tools"].([]any)
	require.Len(t, tools, 1)

	tool := tools[0].(map[string]any)
	assert.Equal(t, "youtube_summary", tool["name"])

	schema := tool["inputSchema"].(map[string]any)
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []any{"url"}, schema["required"])

	props := schema["properties"].(map[string]any)
	for _, name := range []string{"url", "model", "output_file", "save_to_file"} {
		assert.Contains(t, props, name)
	}
	assert.Equal(t, false, props["save_to_file"].(map[string]any)["default"])

	assert.Zero(t, runner.calls)
}

func TestCallToolSuccess(t *testing.T) {
	runner := &countingRunner{}
	resps := processLines(t, New(runner.run),
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"youtube_summary","arguments":{"url":"https://www.youtube.com/watch?v=dQw4w9WgXcQ","save_to_file":false}}}`)

	require.Len(t, resps, 1)
	resp := resps[0]
	assert.Equal(t, float64(2), resp["id"])
	require.NotContains(t, resp, "error")

	content := resp["result"].(map[string]any)["content"].([]any)
	require.Len(t, content, 1)
	item := content[0].(map[string]any)
	assert.Equal(t, "text", item["type"])

	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(item["text"].(string)), &summary))
	for _, key := range []string{"video_id", "video_url", "transcript", "summary", "model_used"} {
		assert.Contains(t, summary, key)
	}
	assert.Equal(t, "dQw4w9WgXcQ", summary["video_id"])
	assert.Equal(t, 1, runner.calls)
}

func TestCallToolMissingURL(t *testing.T) {
	runner := &countingRunner{}
	resps := processLines(t, New(runner.run),
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"youtube_summary","arguments":{}}}`,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"youtube_summary","arguments":{"url":"   "}}}`)

	require.Len(t, resps, 2)
	for _, resp := range resps {
		errObj := resp["error"].(map[string]any)
		assert.Equal(t, float64(CodeInvalidParams), errObj["code"])
		assert.Contains(t, errObj["message"], "url")
	}
	assert.Zero(t, runner.calls, "pipeline must not run without a url")
}

func TestCallUnknownTool(t *testing.T) {
	runner := &countingRunner{}
	resps := processLines(t, New(runner.run),
		`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"unknown_tool","arguments":{"url":"dQw4w9WgXcQ"}}}`)

	require.Len(t, resps, 1)
	errObj := resps[0]["error"].(map[string]any)
	assert.Equal(t, float64(CodeInvalidParams), errObj["code"])
	assert.Contains(t, errObj["message"], "unknown_tool")
	assert.Equal(t, float64(5), resps[0]["id"])
	assert.Zero(t, runner.calls)
}

func TestUnknownMethod(t *testing.T) {
	runner := &countingRunner{}
	resps := processLines(t, New(runner.run),
		`{"jsonrpc":"2.0","id":7,"method":"resources/list"}`)

	require.Len(t, resps, 1)
	errObj := resps[0]["error"].(map[string]any)
	assert.Equal(t, float64(CodeMethodNotFound), errObj["code"])
	assert.Equal(t, float64(7), resps[0]["id"])
}

func TestParseErrorDoesNotStopStream(t *testing.T) {
	runner := &countingRunner{}
	resps := processLines(t, New(runner.run),
		`{"jsonrpc": "2.0", "id": 4, "method": "tools/list"`, // truncated
		`not json at all`,
		`{"jsonrpc":"2.0","id":8,"method":"tools/list"}`)

	require.Len(t, resps, 3)
	for _, resp := range resps[:2] {
		errObj := resp["error"].(map[string]any)
		assert.Equal(t, float64(CodeParseError), errObj["code"])
		assert.Nil(t, resp["id"])
	}
	assert.Equal(t, float64(8), resps[2]["id"])
	require.NotContains(t, resps[2], "error")
}

func TestOversizedLineDoesNotStopStream(t *testing.T) {
	runner := &countingRunner{}
	huge := `{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"youtube_summary","arguments":{"url":"` +
		strings.Repeat("x", maxLineBytes+64) + `"}}}`
	resps := processLines(t, New(runner.run),
		huge,
		`{"jsonrpc":"2.0","id":10,"method":"tools/list"}`)

	require.Len(t, resps, 2, "server must keep serving after an oversized line")
	errObj := resps[0]["error"].(map[string]any)
	assert.Equal(t, float64(CodeParseError), errObj["code"])
	assert.Nil(t, resps[0]["id"])
	assert.Equal(t, float64(10), resps[1]["id"])
	require.NotContains(t, resps[1], "error")
	assert.Zero(t, runner.calls)
}

func TestInvalidRequestEnvelope(t *testing.T) {
	runner := &countingRunner{}
	resps := processLines(t, New(runner.run),
		`{"id":1,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":2}`,
		`{"jsonrpc":"1.0","id":3,"method":"tools/list"}`)

	require.Len(t, resps, 3)
	for i, resp := range resps {
		errObj := resp["error"].(map[string]any)
		assert.Equal(t, float64(CodeInvalidRequest), errObj["code"])
		assert.Equal(t, float64(i+1), resp["id"])
	}
}

func TestIDRoundTrip(t *testing.T) {
	runner := &countingRunner{}
	resps := processLines(t, New(runner.run),
		`{"jsonrpc":"2.0","id":"req-abc-1","method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":"req-abc-2","method":"no/such/method"}`)

	require.Len(t, resps, 2)
	assert.Equal(t, "req-abc-1", resps[0]["id"])
	assert.Equal(t, "req-abc-2", resps[1]["id"])
}

func TestPipelineFailureBecomesErrorResponse(t *testing.T) {
	runner := &countingRunner{err: errors.New("fetch transcript: no transcript available")}
	resps := processLines(t, New(runner.run),
		`{"jsonrpc":"2.0","id":11,"method":"tools/call","params":{"name":"youtube_summary","arguments":{"url":"dQw4w9WgXcQ"}}}`,
		`{"jsonrpc":"2.0","id":12,"method":"tools/list"}`)

	require.Len(t, resps, 2, "server must keep serving after a failed call")
	errObj := resps[0]["error"].(map[string]any)
	assert.Equal(t, float64(CodeInternalError), errObj["code"])
	assert.Contains(t, errObj["message"], "no transcript available")
	assert.Equal(t, 1, runner.calls)
	require.NotContains(t, resps[1], "error")
}

func TestCallToolMissingParams(t *testing.T) {
	runner := &countingRunner{}
	resps := processLines(t, New(runner.run),
		`{"jsonrpc":"2.0","id":13,"method":"tools/call"}`)

	require.Len(t, resps, 1)
	errObj := resps[0]["error"].(map[string]any)
	assert.Equal(t, float64(CodeInvalidParams), errObj["code"])
	assert.Zero(t, runner.calls)
}

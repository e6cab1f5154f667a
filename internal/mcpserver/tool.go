package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/oshea00/youtubesummary/internal/pipeline"
)

const toolName = "youtube_summary"

// toolDescriptor matches the entries of a tools/list result.
type toolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// youtubeSummaryTool is the static description of the single exposed tool.
var youtubeSummaryTool = toolDescriptor{
	Name:        toolName,
	Description: "Download YouTube video transcript and generate AI summary",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "YouTube video URL or video ID",
			},
			"model": map[string]any{
				"type":        "string",
				"description": "LLM model to use for summary",
				"default":     pipeline.DefaultModel,
			},
			"output_file": map[string]any{
				"type":        "string",
				"description": "Output markdown file path",
				"default":     pipeline.DefaultOutputFile,
			},
			"save_to_file": map[string]any{
				"type":        "boolean",
				"description": "Whether to save results to file",
				"default":     false,
			},
		},
		"required": []string{"url"},
	},
}

type listToolsResult struct {
	Tools []toolDescriptor `json:"tools"`
}

type callParams struct {
	Name      string        `json:"name"`
	Arguments toolArguments `json:"arguments"`
}

type toolArguments struct {
	URL        string `json:"url"`
	Model      string `json:"model"`
	OutputFile string `json:"output_file"`
	SaveToFile bool   `json:"save_to_file"`
}

type contentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type callToolResult struct {
	Content []contentItem `json:"content"`
}

func (s *Server) handleListTools(ctx context.Context, req *Request) *Response {
	return resultResponse(req.ID, listToolsResult{Tools: []toolDescriptor{youtubeSummaryTool}})
}

func (s *Server) handleCallTool(ctx context.Context, req *Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("tool call panic recovered",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			resp = errorResponse(req.ID, CodeInternalError, fmt.Sprintf("tool execution panicked: %v", r))
		}
	}()

	var params callParams
	if len(req.Params) == 0 {
		return errorResponse(req.ID, CodeInvalidParams, "missing params")
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, fmt.Sprintf("invalid params: %v", err))
	}

	if params.Name != toolName {
		return errorResponse(req.ID, CodeInvalidParams, fmt.Sprintf("unknown tool: %s", params.Name))
	}
	if strings.TrimSpace(params.Arguments.URL) == "" {
		return errorResponse(req.ID, CodeInvalidParams, "missing required parameter: url")
	}

	result, err := s.run(ctx, pipeline.Options{
		URL:        params.Arguments.URL,
		Model:      params.Arguments.Model,
		OutputFile: params.Arguments.OutputFile,
		SaveToFile: params.Arguments.SaveToFile,
	})
	if err != nil {
		slog.Warn("tool call failed", slog.String("tool", toolName), slog.Any("err", err))
		return errorResponse(req.ID, CodeInternalError, err.Error())
	}

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errorResponse(req.ID, CodeInternalError, fmt.Sprintf("encode result: %v", err))
	}
	return resultResponse(req.ID, callToolResult{
		Content: []contentItem{{Type: "text", Text: string(text)}},
	})
}

// Package mcpserver adapts line-delimited JSON-RPC 2.0 tool-invocation
// requests (tools/list, tools/call) onto the summarization pipeline.
package mcpserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/oshea00/youtubesummary/internal/pipeline"
)

// maxLineBytes caps a single request line. Requests are small; this only
// guards against unbounded input. Over-long lines are discarded and
// answered with a parse error, they never terminate the stream.
const maxLineBytes = 1024 * 1024

var errLineTooLong = errors.New("request line exceeds size limit")

// Runner executes the summarization pipeline for one tool call. The
// indirection lets tests count collaborator invocations.
type Runner func(ctx context.Context, opts pipeline.Options) (*pipeline.SummaryResult, error)

type handlerFunc func(ctx context.Context, req *Request) *Response

// Server dispatches JSON-RPC requests to method handlers.
type Server struct {
	run      Runner
	handlers map[string]handlerFunc
}

// New builds a Server around the given pipeline runner.
func New(run Runner) *Server {
	s := &Server{run: run}
	s.handlers = map[string]handlerFunc{
		"tools/list": s.handleListTools,
		"tools/call": s.handleCallTool,
	}
	return s
}

// Handle processes one decoded request and always produces a response
// whose id echoes the request id.
func (s *Server) Handle(ctx context.Context, req *Request) *Response {
	if req.JSONRPC != "2.0" || req.Method == "" {
		return errorResponse(req.ID, CodeInvalidRequest, "Invalid Request")
	}
	h, ok := s.handlers[req.Method]
	if !ok {
		return errorResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
	return h(ctx, req)
}

// readLine returns the next newline-delimited line, capped at maxLineBytes.
// The remainder of an over-long line is drained and errLineTooLong returned
// so the caller can answer and keep reading.
func readLine(r *bufio.Reader) ([]byte, error) {
	var line []byte
	for {
		chunk, err := r.ReadSlice('\n')
		line = append(line, chunk...)
		if len(line) > maxLineBytes {
			for errors.Is(err, bufio.ErrBufferFull) {
				_, err = r.ReadSlice('\n')
			}
			return nil, errLineTooLong
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return line, err
		}
	}
}

// ProcessStream reads newline-delimited requests from r and writes one
// response per request to w. Malformed or over-long lines produce a
// parse-error response and processing continues; the loop ends cleanly
// on EOF.
func (s *Server) ProcessStream(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := bufio.NewReaderSize(r, 64*1024)
	encoder := json.NewEncoder(w)

	for {
		line, err := readLine(reader)
		if errors.Is(err, errLineTooLong) {
			slog.Debug("request line too long, discarded")
			if encErr := encoder.Encode(errorResponse(nil, CodeParseError, "Parse error")); encErr != nil {
				return encErr
			}
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			var req Request
			if uerr := json.Unmarshal(trimmed, &req); uerr != nil {
				slog.Debug("request parse failed", slog.Any("err", uerr))
				if encErr := encoder.Encode(errorResponse(nil, CodeParseError, "Parse error")); encErr != nil {
					return encErr
				}
			} else if encErr := encoder.Encode(s.Handle(ctx, &req)); encErr != nil {
				return encErr
			}
		}

		if err != nil { // io.EOF after the final unterminated line
			return nil
		}
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshea00/youtubesummary/internal/mcpserver"
	"github.com/oshea00/youtubesummary/internal/pipeline"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the stdio JSON-RPC tool server for AI agents",
	Long: `Start the tool-invocation server on stdin/stdout.

The server speaks line-delimited JSON-RPC 2.0 and exposes a single tool,
youtube_summary, via the tools/list and tools/call methods. Each request
is processed fully before the next line is read; errors are returned as
JSON-RPC error objects and never terminate the server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := mcpserver.New(pipeline.Run)
		if err := srv.ProcessStream(cmd.Context(), os.Stdin, os.Stdout); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

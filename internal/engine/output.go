package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is the material for the markdown output writer.
type Document struct {
	Title      string
	VideoURL   string
	Summary    string
	Transcript string
	Model      string
}

var filenameReplacer = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_",
	"|", "_", "?", "_", "*", "_", "\x00", "_",
)

// sanitizeFilename reduces a user-supplied output path to a safe .md
// filename: basename only, dangerous characters replaced, length capped.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "transcript.md"
	}
	name = filepath.Base(name)
	name = filenameReplacer.Replace(name)
	if !strings.HasSuffix(name, ".md") {
		name += ".md"
	}
	if len(name) > 255 {
		name = name[:250] + ".md"
	}
	return name
}

// renderMarkdown formats the document: header, URL, summary, transcript.
func renderMarkdown(doc Document) string {
	var sb strings.Builder
	sb.WriteString("# YouTube Video Summary\n\n")
	if doc.Title != "" {
		fmt.Fprintf(&sb, "**Title:** %s\n\n", doc.Title)
	}
	fmt.Fprintf(&sb, "**Video URL:** %s\n\n", doc.VideoURL)
	sb.WriteString("## Summary\n\n")
	sb.WriteString(doc.Summary)
	sb.WriteString("\n\n")
	model := doc.Model
	if model == "" {
		model = "AI model"
	}
	fmt.Fprintf(&sb, "*Generated using: %s*\n\n", model)
	sb.WriteString("## Full Transcript\n\n")
	sb.WriteString(doc.Transcript)
	sb.WriteString("\n")
	return sb.String()
}

// SaveMarkdown writes the summary document, confined to the working
// directory. Returns the absolute path written. Nothing is written when
// the path resolves outside the working directory.
func SaveMarkdown(doc Document, outputFile string) (string, error) {
	name := sanitizeFilename(outputFile)

	abs, err := filepath.Abs(name)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	rel, err := filepath.Rel(cwd, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("output file must be inside the working directory: %s", abs)
	}

	if err := os.WriteFile(abs, []byte(renderMarkdown(doc)), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return abs, nil
}

package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("stdin unavailable")
}

func TestPromptForURL(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("  https://youtu.be/dQw4w9WgXcQ\n"))
	cmd.SetOut(&bytes.Buffer{})

	url, err := promptForURL(cmd)
	if err != nil {
		t.Fatalf("promptForURL error: %v", err)
	}
	if url != "https://youtu.be/dQw4w9WgXcQ" {
		t.Errorf("url = %q", url)
	}
}

func TestPromptForURLEmptyInput(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("\n"))
	cmd.SetOut(&bytes.Buffer{})

	if _, err := promptForURL(cmd); err == nil {
		t.Fatal("expected error for empty entry")
	}
}

func TestPromptForURLReadFailure(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(failingReader{})
	cmd.SetOut(&bytes.Buffer{})

	_, err := promptForURL(cmd)
	if err == nil {
		t.Fatal("expected error when stdin is unreadable")
	}
	if !strings.Contains(err.Error(), "stdin unavailable") {
		t.Errorf("error should carry the read failure, got %q", err)
	}
}

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/scamscan/internal/mockclassifier"
	"github.com/nao1215/scamscan/internal/model"
)

// TestNewMockCmd tests the mock command creation.
func TestNewMockCmd(t *testing.T) {
	t.Parallel()

	cmd := NewMockCmd()
	if cmd.Use != "mock" {
		t.Errorf("expected use 'mock', got %q", cmd.Use)
	}

	flag := cmd.Flags().Lookup("addr")
	if flag == nil {
		t.Fatal("expected addr flag")
	}
	if flag.DefValue != mockclassifier.DefaultAddr {
		t.Errorf("expected default %q, got %q", mockclassifier.DefaultAddr, flag.DefValue)
	}
	if cmd.Flags().Lookup("delay") == nil {
		t.Error("expected delay flag")
	}
}

// TestRunMockCmd tests serving and shutting down the mock classifier.
func TestRunMockCmd(t *testing.T) {
	t.Parallel()

	t.Run("serves until cancelled", func(t *testing.T) {
		t.Parallel()

		pr, pw := io.Pipe()
		defer pr.Close()

		cmd := NewRootCmd()
		cmd.SetOut(pw)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"mock", "--addr", "127.0.0.1:0"})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- cmd.ExecuteContext(ctx)
			pw.Close()
		}()

		line, err := bufio.NewReader(pr).ReadString('\n')
		if err != nil {
			t.Fatalf("failed to read banner: %v", err)
		}
		fields := strings.Fields(line)
		if len(fields) < 5 || !strings.HasSuffix(fields[4], mockclassifier.AnalyzePath) {
			t.Fatalf("unexpected banner %q", line)
		}
		url := fields[4]

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url,
			strings.NewReader(`{"message":"You have won a $1000 prize! Click here"}`))
		if err != nil {
			t.Fatalf("failed to create request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var result model.ScanResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("invalid response: %v", err)
		}
		if model.Classify(result) != model.VerdictThreat {
			t.Errorf("expected threat, got %s", model.Classify(result))
		}

		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("mock did not shut down")
		}
	})

	t.Run("rejects negative delay", func(t *testing.T) {
		t.Parallel()

		_, _, err := runCLI(t, "", "mock", "--addr", "127.0.0.1:0", "--delay", "-1s")
		if err == nil || !strings.Contains(err.Error(), "invalid delay") {
			t.Errorf("expected invalid delay error, got %v", err)
		}
	})

	t.Run("fails on a bad address", func(t *testing.T) {
		t.Parallel()

		_, _, err := runCLI(t, "", "mock", "--addr", "not-an-address")
		if err == nil {
			t.Error("expected listen error")
		}
	})
}

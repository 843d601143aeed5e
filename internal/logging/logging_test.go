// Copyright (c) Microsoft. All rights reserved.

package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jochenvw/azure-ai-samples/go/internal/logging"
)

func TestNew_Level(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{"info", false, false},
		{"debug", true, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, closer := logging.New(logging.Options{Debug: tc.debug, Output: &buf})
			defer closer.Close()

			logger.Debug("polling", "run_id", "run_1")
			logger.Info("agent created", "agent_id", "asst_1")

			out := buf.String()
			if got := strings.Contains(out, "run_id=run_1"); got != tc.wantDebug {
				t.Errorf("debug line present = %v, want %v\n%s", got, tc.wantDebug, out)
			}
			if !strings.Contains(out, "level=INFO") || !strings.Contains(out, "agent_id=asst_1") {
				t.Errorf("info line missing:\n%s", out)
			}
		})
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "samples.log")
	logger, closer := logging.New(logging.Options{File: path})
	logger.Info("search complete", "documents", 3)
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "documents=3") {
		t.Errorf("log file = %q", data)
	}
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("DEBUG", "yes")
	t.Setenv("LOG_FILE", "/tmp/x.log")
	opts := logging.OptionsFromEnv()
	if !opts.Debug || opts.File != "/tmp/x.log" {
		t.Errorf("options = %+v", opts)
	}

	t.Setenv("DEBUG", "0")
	if logging.OptionsFromEnv().Debug {
		t.Error("DEBUG=0 enabled debug")
	}
}

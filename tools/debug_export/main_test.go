// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bytes"
	"io"
	"os"
	"testing"
	"time"
)

// TestMainRuns ensures the probe runs end to end against the in-memory
// store and prints the expected summary lines.
func TestMainRuns(t *testing.T) {
	oldOut := os.Stdout
	oldErr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe failed: %v", err)
	}
	os.Stdout = w
	os.Stderr = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		_, _ = io.Copy(&buf, r)
		close(done)
	}()

	main()

	_ = w.Close()
	os.Stdout = oldOut
	os.Stderr = oldErr

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatalf("timeout waiting for main output")
	}

	out := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("stored weeks: 1")) {
		t.Fatalf("expected output to contain 'stored weeks: 1', got %q", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte("week: KW 07/2025")) {
		t.Fatalf("expected output to contain 'week: KW 07/2025', got %q", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte("meals: 4")) {
		t.Fatalf("expected output to contain 'meals: 4', got %q", out)
	}
}

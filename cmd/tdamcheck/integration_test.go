package main

import (
	"context"
	"net/http/httptest"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/csheth/tdamcheck/internal/stubserver"
	"github.com/csheth/tdamcheck/internal/tuitest"
)

func TestCheckerUploadsSelectedFile(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary and drives it through a PTY")
	}
	t.Parallel()

	server := httptest.NewServer(stubserver.New(stubserver.Options{Delay: 300 * time.Millisecond}).Handler())
	defer server.Close()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	tmp := t.TempDir()

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{
			binary,
			"--no-alt-screen",
			"--config", filepath.Join(tmp, "config.yaml"),
			"--log-file", filepath.Join(tmp, "tdamcheck.log"),
			"--endpoint", server.URL + "/upload",
			"--dir", filepath.Join(cmdDir, "testdata", "docs"),
		},
		Dir:    cmdDir,
		Width:  100,
		Height: 60,
		Steps: []tuitest.Step{
			{WaitFor: "policy.txt", Input: tuitest.Keys("c")},
			{WaitFor: "Please select a file first.", Input: tuitest.KeyEnter},
			{WaitFor: "Selected File: policy.txt", Input: tuitest.Keys("c")},
			{WaitFor: "Document Chunk 2", Input: tuitest.Keys("q")},
		},
		Timeout: 20 * time.Second,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	for _, want := range []string{
		"TDAM Compliance Checker",
		"Language models can make mistakes",
		"Generated Comment",
		"Misleading claim",
		"All criteria met.",
		"Compliance Review (2 chunks)",
	} {
		if !rec.Contains(want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if _, ok := rec.FinalFrame(); !ok {
		t.Errorf("no frames captured")
	}
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	tmp := t.TempDir()
	name := "tdamcheck-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(tmp, name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}

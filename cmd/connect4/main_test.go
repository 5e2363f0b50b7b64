package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	apperrors "connect4/internal/errors"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	args = append(args, "--config", filepath.Join(t.TempDir(), "missing.env"), "--no-color")
	var out bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &out, zaptest.NewLogger(t).Sugar())
	return out.String(), err
}

func TestAdvanceSnapshot(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "board.txt")
	outPath := filepath.Join(dir, "next.txt")
	if err := os.WriteFile(in, []byte(strings.Repeat("0000000\n", 6)+"1\n"), 0o600); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	out, err := runCLI(t, "", "--snapshot", in, "--out", outPath, "--depth", "1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{" -- MOVE 1 EVALUATION --", "Column: 3 | Evaluation: 3", "Best column: 3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read advanced snapshot: %v", err)
	}
	if want := "0001000\n" + strings.Repeat("0000000\n", 5) + "2\n"; string(got) != want {
		t.Fatalf("advanced snapshot = %q, want %q", got, want)
	}
}

func TestAdvanceSnapshotFromStdin(t *testing.T) {
	out, err := runCLI(t, "12\n12\n1\n", "--snapshot", "-")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "Game over: draw") {
		t.Fatalf("full board not reported as over:\n%s", out)
	}
}

func TestAdvanceSnapshotInvalid(t *testing.T) {
	if _, err := runCLI(t, "10\n10\n2\n00\n", "--snapshot", "-"); !errors.Is(err, apperrors.ErrInvalidSnapshot) {
		t.Fatalf("err = %v, want ErrInvalidSnapshot", err)
	}
}

func TestPlayEngineAgainstEngine(t *testing.T) {
	out, err := runCLI(t, "\n\n\n\n", "--play", "--width", "2", "--height", "2", "--depth", "2")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Count(out, "EVALUATION") != 4 || !strings.Contains(out, "Game over: draw") {
		t.Fatalf("unexpected game:\n%s", out)
	}
}

func TestPlayHumanRetriesBadInput(t *testing.T) {
	out, err := runCLI(t, "abc\n9\n", "--play", "--human", "red", "--width", "4", "--height", "4", "--depth", "1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Please enter a column number.") || !strings.Contains(out, "column is out of range") {
		t.Fatalf("bad input not reported:\n%s", out)
	}
	if strings.Contains(out, "EVALUATION") {
		t.Fatalf("engine moved for the human:\n%s", out)
	}
}

func TestPlayHumanAgainstEngine(t *testing.T) {
	out, err := runCLI(t, "0\n", "--play", "--human", "blue", "--width", "4", "--height", "4", "--depth", "1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Count(out, "EVALUATION") != 2 || !strings.Contains(out, "Moves: 3") {
		t.Fatalf("unexpected game:\n%s", out)
	}
}

func TestPlayRejectsUnknownSide(t *testing.T) {
	if _, err := runCLI(t, "", "--play", "--human", "green"); !errors.Is(err, apperrors.ErrInvalidColor) {
		t.Fatalf("err = %v, want ErrInvalidColor", err)
	}
}

func TestUsageWithoutMode(t *testing.T) {
	out, err := runCLI(t, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(out, "usage: connect4") || !strings.Contains(out, "--snapshot") {
		t.Fatalf("unexpected usage output:\n%s", out)
	}
}

package botlog

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sentiment-trading-bot/internal/export"
)

func TestPrintfLinesParseBackOut(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bot.log")
	t.Setenv("BOT_LOG_FILE", path)

	if err := Printf("RSI: %.1f, MACD: %.4f, Price: $%.2f", 55.2, -0.0031, 42000.50); err != nil {
		t.Fatalf("Printf: %v", err)
	}
	if err := Printf("No trade signal."); err != nil {
		t.Fatalf("Printf: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	rec, ok := export.ParseLine(lines[0])
	if !ok {
		t.Fatalf("exporter rejected line %q", lines[0])
	}
	if rec.RSI != "55.2" {
		t.Errorf("RSI: got %q", rec.RSI)
	}
	if rec.MACD != "-0.0031" {
		t.Errorf("MACD: got %q", rec.MACD)
	}
	if rec.Price != "42000.50" {
		t.Errorf("Price: got %q", rec.Price)
	}

	rec, ok = export.ParseLine(lines[1])
	if !ok {
		t.Fatalf("exporter rejected line %q", lines[1])
	}
	if rec.Message != "No trade signal." {
		t.Errorf("Message: got %q", rec.Message)
	}
}

func TestPrintfCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bot.log")
	t.Setenv("BOT_LOG_FILE", path)
	if err := Printf("hello"); err != nil {
		t.Fatalf("Printf: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected log file created: %v", err)
	}
}

func TestCompressOlder(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BOT_LOG_FILE", filepath.Join(dir, "bot.log"))

	oldPath := filepath.Join(dir, "old.log")
	if err := os.WriteFile(oldPath, []byte("ancient line\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().AddDate(0, 0, -10)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatal(err)
	}
	freshPath := filepath.Join(dir, "bot.log")
	if err := os.WriteFile(freshPath, []byte("fresh line\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CompressOlder(7); err != nil {
		t.Fatalf("CompressOlder: %v", err)
	}

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("expected stale log removed after compression")
	}
	gz, err := os.Open(oldPath + ".gz")
	if err != nil {
		t.Fatalf("expected gzip archive: %v", err)
	}
	defer gz.Close()
	r, err := gzip.NewReader(gz)
	if err != nil {
		t.Fatal(err)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "ancient line\n" {
		t.Errorf("archive content: got %q", content)
	}

	if _, err := os.Stat(freshPath); err != nil {
		t.Errorf("fresh log must be untouched: %v", err)
	}

	// disabled retention is a no-op
	if err := CompressOlder(0); err != nil {
		t.Errorf("CompressOlder(0): %v", err)
	}
}

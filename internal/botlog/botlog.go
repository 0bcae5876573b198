// Package botlog maintains the bot's append-only text log file. One
// timestamped line per event, single writer, the same stream the log
// exporter consumes.
package botlog

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var mu sync.Mutex

// timestamp layout matches the exporter's line pattern: date, time, then a
// comma-separated millisecond field.
const tsLayout = "2006-01-02 15:04:05.000"

func logPath() string {
	if v := os.Getenv("BOT_LOG_FILE"); v != "" {
		return v
	}
	return "trading_bot.log"
}

// Printf appends one formatted line to the log file.
func Printf(format string, args ...any) error {
	return writeLine(fmt.Sprintf(format, args...))
}

func writeLine(msg string) error {
	mu.Lock()
	defer mu.Unlock()
	p := logPath()
	if dir := filepath.Dir(p); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	ts := time.Now().Format(tsLayout)
	// swap the sub-second dot for the comma the line format uses
	ts = ts[:19] + "," + ts[20:]
	_, err = fmt.Fprintf(f, "%s - %s\n", ts, msg)
	return err
}

// CompressOlder gzips log files older than retentionDays. A zero or negative
// retention disables the pass.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	dir := filepath.Dir(logPath())
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".log" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			_ = os.Remove(p)
			return nil
		}
		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()
		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 == nil {
			_ = gw.Close()
			_ = out.Close()
			_ = os.Remove(p)
		} else {
			_ = gw.Close()
			_ = out.Close()
		}
		return nil
	})
}

// Package export turns the bot's text log into a spreadsheet-style CSV. It
// is a stateless line-by-line pass: unmatched lines are skipped, matched
// lines yield one row each, input order is preserved.
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Record is one parsed log line. Optional fields are empty strings when the
// message does not carry them.
type Record struct {
	Date             string
	Time             string
	RSI              string
	MACD             string
	ConnectionStatus string
	Price            string
	Message          string
}

var (
	linePattern  = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}) (\d{2}:\d{2}:\d{2}),\d+ - (.*)$`)
	rsiPattern   = regexp.MustCompile(`RSI[: ]+([\d.]+)`)
	macdPattern  = regexp.MustCompile(`MACD[: ]+([-.\d]+)`)
	pricePattern = regexp.MustCompile(`Price[: ]+\$?([\d,]*\d(?:\.\d+)?)`)
	connOK       = regexp.MustCompile(`(?i)connection (OK|Successful|Established)`)
	connErr      = regexp.MustCompile(`(?i)(API|connection) (error|failed|issue)`)
)

// Header is the fixed CSV column order.
var Header = []string{"Date", "Time", "RSI", "MACD", "Connection Status", "Price", "Message"}

// ParseLine parses one log line. The second return value is false for lines
// that do not match the timestamped line pattern; that is not an error.
func ParseLine(line string) (Record, bool) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Record{}, false
	}
	msg := m[3]
	rec := Record{
		Date:    m[1],
		Time:    m[2],
		Message: strings.TrimSpace(msg),
	}
	if sub := rsiPattern.FindStringSubmatch(msg); sub != nil {
		rec.RSI = sub[1]
	}
	if sub := macdPattern.FindStringSubmatch(msg); sub != nil {
		rec.MACD = sub[1]
	}
	if sub := pricePattern.FindStringSubmatch(msg); sub != nil {
		rec.Price = sub[1]
	}
	switch {
	case connOK.MatchString(msg):
		rec.ConnectionStatus = "OK"
	case connErr.MatchString(msg):
		rec.ConnectionStatus = "ERROR"
	}
	return rec, true
}

func (r Record) row() []string {
	return []string{r.Date, r.Time, r.RSI, r.MACD, r.ConnectionStatus, r.Price, r.Message}
}

// Run streams the log file into a CSV. The header row is always written,
// even when no line matches. Returns the number of data rows written.
func Run(inPath, outPath string) (int, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return 0, fmt.Errorf("open log: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create csv: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()
	if err := w.Write(Header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	rows := 0
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		rec, ok := ParseLine(sc.Text())
		if !ok {
			continue
		}
		if err := w.Write(rec.row()); err != nil {
			return rows, fmt.Errorf("write row: %w", err)
		}
		rows++
	}
	if err := sc.Err(); err != nil {
		return rows, fmt.Errorf("read log: %w", err)
	}
	w.Flush()
	return rows, w.Error()
}

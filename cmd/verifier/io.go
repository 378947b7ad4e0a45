package main

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	emailverifier "github.com/sanketagarwal/email-verifier"
)

// readInput reads addresses from path, or from stdin when path is "-".
func readInput(path, column string) ([]string, error) {
	if path == "-" {
		return readLines(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return readCSV(f, column)
	}
	return readLines(f)
}

// readLines returns one address per non-blank line.
func readLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}

// readCSV returns the values of the named column. The header match is
// case-insensitive. Every data row yields one address, blank or not.
func readCSV(r io.Reader, column string) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	idx := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), column) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("csv has no %q column (have %s)", column, strings.Join(header, ", "))
	}

	var out []string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if idx < len(rec) {
			out = append(out, rec[idx])
		} else {
			out = append(out, "")
		}
	}
}

// writeCSV writes the results with a header row.
func writeCSV(w io.Writer, results []emailverifier.Outcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"email", "status", "reason", "suggestion"}); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write([]string{r.Email, string(r.Status), r.Reason, r.Suggestion}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, report emailverifier.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"shelf/pkg/docstore"
)

var errNoInput = errors.New("no input: pass -f <file> or pipe JSON on stdin")

// readRecordJSON reads a JSON object from the -f file, or from stdin when
// file is "-" or empty.
func readRecordJSON(in io.Reader, file string) (docstore.Record, error) {
	var data []byte

	var err error

	switch file {
	case "", "-":
		if in == nil {
			return nil, errNoInput
		}

		data, err = io.ReadAll(in)
	default:
		data, err = os.ReadFile(file) //nolint:gosec // path is intentionally user-controlled
	}

	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if len(data) == 0 {
		return nil, errNoInput
	}

	var rec docstore.Record

	unmarshalErr := json.Unmarshal(data, &rec)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("parse input JSON: %w", unmarshalErr)
	}

	return rec, nil
}

// printRecordJSON writes one record as indented JSON.
func printRecordJSON(w io.Writer, rec docstore.Record) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		fprintln(w, "error: encode record:", err)

		return
	}

	fprintln(w, string(data))
}

// printRecordsJSON writes a slice of records as one indented JSON array.
func printRecordsJSON(w io.Writer, records []docstore.Record) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		fprintln(w, "error: encode records:", err)

		return
	}

	fprintln(w, string(data))
}

// printRecordTable writes records in the fixed-width ls layout.
func printRecordTable(w io.Writer, records []docstore.Record) {
	if len(records) == 0 {
		fprintln(w, "(empty collection)")

		return
	}

	fprintf(w, "%-14s %-24s %-32s %8s  %-14s %s\n",
		"ID", "HANDLE", "TITLE", "PRICE", "CATEGORY", "FLAGS")

	for _, rec := range records {
		title, _ := rec["title"].(string)
		category, _ := rec["category"].(string)

		price := ""
		if p, ok := rec["price"].(float64); ok {
			price = fmt.Sprintf("%.2f", p)
		}

		fprintf(w, "%-14s %-24s %-32s %8s  %-14s %s\n",
			rec.ID(), rec.Handle(), truncate(title, 32), price, category, flagSummary(rec))
	}
}

func flagSummary(rec docstore.Record) string {
	out := ""

	if inStock, ok := rec["inStock"].(bool); ok && inStock {
		out += "in-stock"
	}

	if featured, ok := rec["featured"].(bool); ok && featured {
		if out != "" {
			out += ","
		}

		out += "featured"
	}

	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max-1] + "…"
}

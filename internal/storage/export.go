package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/thermokit/internal/thermo"
)

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Result thermo.Result `json:"result"`
}

// ExportJSON writes a run and its result as one JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, result thermo.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Result: result})
}

// Entry is one dispatched request as it appears in the output file.
type Entry struct {
	Calculation string
	Components  []string
	Result      thermo.Result
	Err         error
}

// WriteOutput writes every entry as a titled text table, separated by
// blank lines. Failed entries record their error in place of a table.
func WriteOutput(w io.Writer, entries []Entry) error {
	for i, e := range entries {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		title := "calculation_type: " + e.Calculation
		if e.Err != nil {
			if _, err := fmt.Fprintf(w, "%s\nerror: %v\n", title, e.Err); err != nil {
				return err
			}
			continue
		}
		if err := WriteText(w, title, NewTable(e.Result, e.Components)); err != nil {
			return err
		}
	}
	return nil
}

// WriteOutputFile replaces path with the output of WriteOutput.
func WriteOutputFile(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteOutput(f, entries); err != nil {
		return err
	}
	return f.Close()
}

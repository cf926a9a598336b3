package format

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"dayboard-cli/internal/model"
)

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - table (items only)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "table":
		items, ok := v.([]model.Item)
		if !ok {
			return fmt.Errorf("table format supports item lists only")
		}
		return WriteItemTable(w, items)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteItemTable writes a human-scannable item table.
func WriteItemTable(w io.Writer, items []model.Item) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tTYPE\tPRI\tDUE\tTEXT")
	for _, it := range items {
		done := " "
		if it.Completed {
			done = "x"
		}
		due := "-"
		if it.DueDate != nil {
			due = string(*it.DueDate)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", it.ID, done, it.Type, it.Priority, due, it.Text)
	}
	return tw.Flush()
}

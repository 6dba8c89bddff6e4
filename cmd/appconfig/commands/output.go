package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
)

// printIDs renders a flat list of resource ids, in table or json form.
func printIDs(kind string, ids []string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string][]string{kind: ids})
	case "table":
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("ID")
		for _, id := range ids {
			table.Append(id)
		}
		return table.Render()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// evaluationRow is the shape rendered by the get command for both
// features and properties.
type evaluationRow struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled *bool  `json:"enabled,omitempty"`
	Value   string `json:"value"`
}

func printEvaluation(row evaluationRow) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(row)
	case "table":
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("ID", "Name", "Enabled", "Value")
		enabled := ""
		if row.Enabled != nil {
			enabled = fmt.Sprintf("%t", *row.Enabled)
		}
		table.Append(row.ID, row.Name, enabled, row.Value)
		return table.Render()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

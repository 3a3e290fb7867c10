// Package output renders sessions and dashboards as JSON, Markdown, HTML and XLSX.
package output

import (
	"encoding/json"
)

// ToJSON serializes v to JSON.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

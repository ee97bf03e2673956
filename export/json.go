package export

import (
	"encoding/json"
	"fmt"
	"io"

	"newsdash/types"
)

// WriteJSON writes records as an indented JSON array. A nil slice is written as [].
func WriteJSON(w io.Writer, records []types.Record) error {
	if records == nil {
		records = []types.Record{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

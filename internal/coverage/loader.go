package coverage

import (
	"encoding/json"
	"fmt"
)

// ParseSnapshot decodes a serialized execution snapshot: the JSON object
// instrumented runtimes expose as window.__coverage__, and the shape the
// json report writes back out. Structural validation happens in Merge.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse coverage snapshot: %w", err)
	}
	return snap, nil
}

// Package keyvdf extracts depot decryption keys from Valve VDF key documents
// (Key.vdf / config.vdf as published by manifest repositories).
package keyvdf

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/andygrunwald/vdf"

	"steamfetch/internal/model"
)

// Extract parses data as VDF and returns one DepotRecord per entry of the
// top-level "depots" section, sorted by depot id. A missing section or a
// depot without a DecryptionKey is a hard error: malformed upstream key
// documents abort the run instead of producing a partial key set.
func Extract(data []byte) ([]model.DepotRecord, error) {
	parsed, err := vdf.NewParser(bytes.NewReader(data)).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse key document: %w", err)
	}

	depotsRaw, ok := parsed["depots"]
	if !ok {
		return nil, fmt.Errorf("key document has no depots section")
	}
	depots, ok := depotsRaw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("depots section is not a map")
	}

	records := make([]model.DepotRecord, 0, len(depots))
	for depotID, raw := range depots {
		info, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("depot %s entry is not a map", depotID)
		}
		key, ok := info["DecryptionKey"].(string)
		if !ok || key == "" {
			return nil, fmt.Errorf("depot %s has no DecryptionKey", depotID)
		}
		records = append(records, model.DepotRecord{DepotID: depotID, DecryptionKey: key})
	}

	// The VDF map carries no usable order; sort by depot id so output is
	// deterministic.
	sort.Slice(records, func(i, j int) bool {
		return depotLess(records[i].DepotID, records[j].DepotID)
	})
	return records, nil
}

func depotLess(a, b string) bool {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

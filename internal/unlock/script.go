// Package unlock turns collected depot keys and downloaded manifest names
// into the Lua unlock script consumed by SteamTools.
package unlock

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"steamfetch/internal/model"
	"steamfetch/internal/store"
)

const ScriptExt = ".lua"

// Generate renders the unlock script: one addappid line for the app itself,
// then per depot record an addappid line with its key and one setManifestid
// line per "<depot-id>_<manifest-id>.manifest" file found in outputDir.
// Manifest ids are emitted in sorted order so output is deterministic.
func Generate(records []model.DepotRecord, appID, outputDir string) (string, error) {
	var lines []string
	lines = append(lines, fmt.Sprintf("addappid(%s)", appID))

	for _, rec := range records {
		lines = append(lines, fmt.Sprintf("addappid(%s,1,%q)", rec.DepotID, rec.DecryptionKey))

		names, err := store.ManifestNames(outputDir, rec.DepotID, model.ManifestSuffix)
		if err != nil {
			return "", err
		}
		sort.Strings(names)
		for _, name := range names {
			manifestID := name[len(rec.DepotID)+1 : len(name)-len(model.ManifestSuffix)]
			lines = append(lines, fmt.Sprintf("setManifestid(%s,%q,0)", rec.DepotID, manifestID))
		}
	}

	return strings.Join(lines, "\n"), nil
}

// Write generates the script and persists it as <appid>.lua inside
// outputDir. No records means no script: the empty path signals that.
func Write(records []model.DepotRecord, appID, outputDir string) (string, error) {
	if len(records) == 0 {
		return "", nil
	}
	script, err := Generate(records, appID, outputDir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(outputDir, appID+ScriptExt)
	if err := store.WriteBytes(path, []byte(script+"\n")); err != nil {
		return "", err
	}
	return path, nil
}

package model

import (
	"fmt"
	"strings"
)

// NormalizeAppID reduces raw user input like "440-441-Tools" to the canonical
// app id: the input is split on "-", non-numeric segments are dropped, and
// the first numeric segment wins.
func NormalizeAppID(raw string) (string, error) {
	for _, part := range strings.Split(strings.TrimSpace(raw), "-") {
		if part != "" && isDecimal(part) {
			return part, nil
		}
	}
	return "", fmt.Errorf("no numeric app id in %q", raw)
}

func isDecimal(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// BundleDirName names the output directory for one app: "[<appid>]<name>",
// with path-hostile characters stripped from the display name.
func BundleDirName(appID, gameName string) string {
	return "[" + appID + "]" + sanitizeName(gameName)
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

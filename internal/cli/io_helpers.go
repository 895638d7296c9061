package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// styledLogf colors progress lines by their leading status glyph.
func styledLogf(format string, a ...any) {
	line := fmt.Sprintf(format, a...)
	switch {
	case strings.HasPrefix(line, "✅"):
		line = okStyle.Render(line)
	case strings.HasPrefix(line, "⚠"):
		line = warnStyle.Render(line)
	case strings.HasPrefix(line, "🔄"), strings.HasPrefix(line, "👋"):
		line = mutedStyle.Render(line)
	}
	fmt.Println(line)
}

func discardLogf(string, ...any) {}

func stdinIsTTY() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

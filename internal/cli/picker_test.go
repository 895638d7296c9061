package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"steamfetch/internal/catalog"
)

func pickerApps() []catalog.App {
	return []catalog.App{
		{AppID: 440, Name: "Team Fortress 2"},
		{AppID: 570, Name: "Dota 2"},
		{AppID: 730, Name: "Counter-Strike 2"},
	}
}

func TestPickerSelectsWithCursorAndEnter(t *testing.T) {
	m := newPickerModel(pickerApps())

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	final := model.(pickerModel)
	if final.choice == nil {
		t.Fatal("expected a choice after enter")
	}
	if final.choice.AppID != 570 {
		t.Fatalf("expected Dota 2 selected, got %+v", final.choice)
	}
}

func TestPickerFilterNarrowsMatches(t *testing.T) {
	m := newPickerModel(pickerApps())

	var model tea.Model = m
	for _, r := range "strike" {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	filtered := model.(pickerModel).filtered
	if len(filtered) != 1 || filtered[0].AppID != 730 {
		t.Fatalf("expected only Counter-Strike 2 after filtering, got %v", filtered)
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	final := model.(pickerModel)
	if final.choice == nil || final.choice.AppID != 730 {
		t.Fatalf("expected Counter-Strike 2 selected, got %+v", final.choice)
	}
}

func TestPickerEscCancels(t *testing.T) {
	m := newPickerModel(pickerApps())

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	final := model.(pickerModel)
	if !final.cancelled {
		t.Fatal("expected cancellation after esc")
	}
	if final.choice != nil {
		t.Fatalf("cancelled picker must not carry a choice, got %+v", final.choice)
	}
}

func TestPickerViewListsMatches(t *testing.T) {
	m := newPickerModel(pickerApps())
	view := m.View()
	if !strings.Contains(view, "Team Fortress 2 (AppID: 440)") {
		t.Fatalf("view missing first entry:\n%s", view)
	}
	if !strings.Contains(view, "3 matches") {
		t.Fatalf("view missing match count:\n%s", view)
	}
}

package keyvdf

import (
	"strings"
	"testing"
)

const keyDoc = `"depots"
{
	"441"
	{
		"DecryptionKey"		"abc123"
	}
	"232251"
	{
		"DecryptionKey"		"ffee00"
	}
	"1442"
	{
		"DecryptionKey"		"deadbeef"
	}
}
`

func TestExtract_ReturnsRecordsSortedByDepotID(t *testing.T) {
	records, err := Extract([]byte(keyDoc))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	wantIDs := []string{"441", "1442", "232251"}
	for i, want := range wantIDs {
		if records[i].DepotID != want {
			t.Fatalf("record %d: got depot %s, want %s (records %v)", i, records[i].DepotID, want, records)
		}
	}
	if records[0].DecryptionKey != "abc123" {
		t.Fatalf("unexpected key %q for depot 441", records[0].DecryptionKey)
	}
}

func TestExtract_MissingDepotsSectionIsHardError(t *testing.T) {
	doc := `"InstallConfigStore"
{
	"Software"		"whatever"
}
`
	if _, err := Extract([]byte(doc)); err == nil {
		t.Fatalf("expected error for missing depots section")
	}
}

func TestExtract_MissingDecryptionKeyIsHardError(t *testing.T) {
	doc := `"depots"
{
	"441"
	{
		"SomethingElse"		"abc123"
	}
}
`
	_, err := Extract([]byte(doc))
	if err == nil {
		t.Fatalf("expected error for missing DecryptionKey")
	}
	if !strings.Contains(err.Error(), "441") {
		t.Fatalf("error should name the offending depot: %v", err)
	}
}

func TestExtract_MalformedDocumentIsHardError(t *testing.T) {
	if _, err := Extract([]byte(`"depots" { "441" {`)); err == nil {
		t.Fatalf("expected parse error")
	}
}

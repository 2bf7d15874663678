package airtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRecordID(t *testing.T) {
	assert.True(t, IsRecordID("recR2lEIdjwEL5DvG"))
	assert.True(t, IsRecordID([]any{"recR2lEIdjwEL5DvG"}))
	assert.False(t, IsRecordID("rec123"))
	assert.False(t, IsRecordID("appLkNDICXNqxSDhG"))
	assert.False(t, IsRecordID([]any{}))
	assert.False(t, IsRecordID(42))
}

func TestCombineRecords(t *testing.T) {
	a := &Record{ID: "recA", Fields: map[string]any{
		"Tags":  []any{"red", "blue"},
		"Notes": "first",
		"Count": float64(2),
		"Only":  "a",
	}}
	b := &Record{ID: "recB", Fields: map[string]any{
		"Tags":  []any{"blue", "green"},
		"Notes": "second",
		"Count": float64(3),
	}}

	combined := CombineRecords(a, b, nil)

	assert.Equal(t, "recB", combined.ID, "result keeps the existing record's id")
	assert.Equal(t, []any{"red", "blue", "green"}, combined.Fields["Tags"])
	assert.Equal(t, "first, second", combined.Fields["Notes"])
	assert.Equal(t, float64(5), combined.Fields["Count"])
	assert.Equal(t, "a", combined.Fields["Only"])
}

func TestCombineRecords_JoinFieldsSubset(t *testing.T) {
	a := &Record{Fields: map[string]any{"Notes": "x", "Skip": "y"}}
	b := &Record{ID: "recB", Fields: map[string]any{"Notes": "z", "Skip": "w"}}

	combined := CombineRecords(a, b, []string{"Notes"})

	assert.Equal(t, "x, z", combined.Fields["Notes"])
	assert.NotContains(t, combined.Fields, "Skip")
}

func TestFilterRecord(t *testing.T) {
	incoming := &Record{Fields: map[string]any{
		"Name": "215 West 95th",
		"Rent": float64(3500),
		"New":  "value",
	}}
	existing := &Record{ID: "recB", Fields: map[string]any{
		"Name": "215 West 95th",
		"Rent": float64(3400),
	}}

	diff := FilterRecord(incoming, existing, nil)

	assert.Equal(t, "recB", diff.ID)
	assert.NotContains(t, diff.Fields, "Name", "unchanged fields are dropped")
	assert.Equal(t, float64(3500), diff.Fields["Rent"])
	assert.Equal(t, "value", diff.Fields["New"])
}

func TestFilterRecord_DropsEmptyNewFields(t *testing.T) {
	incoming := &Record{Fields: map[string]any{"Empty": "", "Zero": float64(0)}}
	existing := &Record{ID: "recB", Fields: map[string]any{}}

	diff := FilterRecord(incoming, existing, nil)

	assert.Empty(t, diff.Fields)
}

func TestOverrideRecord(t *testing.T) {
	incoming := &Record{Fields: map[string]any{"Rent": float64(3500)}}
	existing := &Record{Fields: map[string]any{
		"Keep Rent": true,
		"Rent":      float64(3000),
	}}

	out := OverrideRecord(incoming, existing, []Override{
		{RefField: "Keep Rent", OverrideField: "Rent"},
	})

	assert.Equal(t, float64(3000), out.Fields["Rent"])
	assert.Equal(t, float64(3500), incoming.Fields["Rent"], "input is not mutated")
}

func TestCompareRecords(t *testing.T) {
	incoming := &Record{Fields: map[string]any{"Notes": "new"}}
	existing := &Record{ID: "recB", Fields: map[string]any{"Notes": "old"}}

	overwrite, err := CompareRecords(incoming, existing, MergeOverwrite, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "new", overwrite.Fields["Notes"])

	combine, err := CompareRecords(incoming, existing, MergeCombine, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "new, old", combine.Fields["Notes"])

	_, err = CompareRecords(incoming, existing, MergeMethod("bogus"), nil, nil)
	assert.Error(t, err)
}

func TestLinkTables(t *testing.T) {
	apartments := []*Record{
		{ID: "recA1", Fields: map[string]any{"District": "Upper West Side, Midtown"}},
		{ID: "recA2", Fields: map[string]any{"District": "Nowhere"}},
	}
	districts := []*Record{
		{ID: "recD1", Fields: map[string]any{"Name": "Upper West Side"}},
		{ID: "recD2", Fields: map[string]any{"Name": "Midtown"}},
	}

	linked := LinkTables(apartments, districts, []string{"District"}, "Name")

	require.Len(t, linked, 2)
	assert.Equal(t, []any{"recD1", "recD2"}, linked[0].Fields["District"])
	assert.Empty(t, linked[1].Fields["District"], "unmatched keys are dropped")
}

func TestGraftFields(t *testing.T) {
	rec := &Record{Fields: map[string]any{
		"Tags":   "zebra,apple",
		"Single": "only",
		"Number": float64(7),
	}}

	out := GraftFields(rec, []string{"Tags", "Single", "Number"}, ",", true)

	assert.Equal(t, []any{"apple", "zebra"}, out.Fields["Tags"])
	assert.Equal(t, []any{"only"}, out.Fields["Single"])
	assert.Equal(t, float64(7), out.Fields["Number"], "non-strings are untouched")
}

func TestFlattenAttachments(t *testing.T) {
	attachments := []any{
		map[string]any{"id": "att1", "url": "https://dl.example/a.png", "size": float64(1024)},
		map[string]any{"id": "att2", "url": "https://dl.example/b.png"},
	}

	flattened := FlattenAttachments(attachments)

	assert.Equal(t, []any{
		map[string]any{"url": "https://dl.example/a.png"},
		map[string]any{"url": "https://dl.example/b.png"},
	}, flattened)

	assert.Equal(t, "plain", FlattenAttachments("plain"))
	assert.Equal(t, []any{"recX"}, FlattenAttachments([]any{"recX"}))
}

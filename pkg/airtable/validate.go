package airtable

import (
	"fmt"
	"slices"
)

// FieldTypes are the field types Airtable documents for table schemas.
var FieldTypes = []string{
	"singleLineText",
	"email",
	"url",
	"multilineText",
	"number",
	"percent",
	"currency",
	"singleSelect",
	"multipleSelects",
	"singleCollaborator",
	"multipleCollaborators",
	"multipleRecordLinks",
	"dateTime",
	"phoneNumber",
	"multipleAttachments",
	"checkbox",
	"formula",
	"rollup",
	"count",
	"multipleLookupValues",
	"autoNumber",
	"barcode",
}

// ViewTypes are the view types Airtable documents.
var ViewTypes = []string{"grid", "form", "calendar", "gallery", "kanban"}

// PermissionLevels are the base permission levels Airtable documents.
var PermissionLevels = []string{"read", "comment", "edit", "create"}

// ValidateRecords checks the shape of records ahead of a write call:
// requireID demands server-assigned ids (updates, deletes), requireFields
// demands a fields map (creates, updates).
func ValidateRecords(records []*Record, requireID, requireFields bool) error {
	if len(records) == 0 {
		return fmt.Errorf("no records provided")
	}
	for i, rec := range records {
		if rec == nil {
			return fmt.Errorf("record %d is nil", i)
		}
		if requireID && rec.ID == "" {
			return fmt.Errorf("record %d has no id", i)
		}
		if requireFields && rec.Fields == nil {
			return fmt.Errorf("record %d has no fields", i)
		}
	}
	return nil
}

// IsValueAcceptable reports whether a value's Go type can populate a field
// of the given type. Unknown field types are an error.
func IsValueAcceptable(v any, fieldType string) (bool, error) {
	if !slices.Contains(FieldTypes, fieldType) {
		return false, fmt.Errorf("%q is not an acceptable field type", fieldType)
	}
	switch v.(type) {
	case string:
		switch fieldType {
		case "singleLineText", "email", "url", "multilineText", "singleSelect", "phoneNumber", "dateTime", "barcode":
			return true, nil
		}
	case []any, []string:
		switch fieldType {
		case "multipleSelects", "multipleCollaborators", "multipleRecordLinks", "multipleAttachments", "multipleLookupValues":
			return true, nil
		}
	case bool:
		return fieldType == "checkbox", nil
	case int, int64, float64:
		switch fieldType {
		case "number", "percent", "currency", "count", "autoNumber":
			return true, nil
		}
	}
	return false, nil
}

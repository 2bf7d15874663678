package airtable

// Record tooling for synchronizing local data with remote tables: merging,
// diffing and relinking records without touching the network.

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// IsRecordID reports whether v is a record id or a non-empty list of record
// ids.
func IsRecordID(v any) bool {
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return false
		}
		v = list[0]
	}
	s, ok := v.(string)
	return ok && len(s) == 17 && strings.HasPrefix(s, "rec")
}

// CombineRecords merges the field values of a into b: lists are unioned,
// strings joined with ", " and numbers added. The result keeps b's id. When
// joinFields is empty every field of a is merged. Fields that cannot be
// combined (missing from b, or mismatched types) fall back to a's value.
func CombineRecords(a, b *Record, joinFields []string) *Record {
	combined := &Record{ID: b.ID, Fields: make(map[string]any)}

	keys := joinFields
	if len(keys) == 0 {
		keys = fieldNames(a)
	}
	for _, key := range keys {
		av, ok := a.Fields[key]
		if !ok {
			continue
		}
		bv, ok := b.Fields[key]
		if !ok {
			combined.Fields[key] = av
			continue
		}
		combined.Fields[key] = combineValues(av, bv)
	}
	return combined
}

func combineValues(av, bv any) any {
	switch a := av.(type) {
	case []any:
		merged := append([]any{}, a...)
		if b, ok := bv.([]any); ok {
			for _, item := range b {
				if !containsValue(merged, item) {
					merged = append(merged, item)
				}
			}
		}
		return merged
	case string:
		if b, ok := bv.(string); ok {
			return a + ", " + b
		}
	case float64:
		if b, ok := bv.(float64); ok {
			return a + b
		}
	case int:
		if b, ok := bv.(int); ok {
			return a + b
		}
	}
	return av
}

// FilterRecord keeps the fields of a that differ from b, for building a
// minimal update. The result keeps b's id. When filterFields is empty every
// field of a is compared.
func FilterRecord(a, b *Record, filterFields []string) *Record {
	filtered := &Record{ID: b.ID, Fields: make(map[string]any)}

	keys := filterFields
	if len(keys) == 0 {
		keys = fieldNames(a)
	}
	for _, key := range keys {
		av, ok := a.Fields[key]
		if !ok {
			continue
		}
		bv, inB := b.Fields[key]
		if !inB {
			if isTruthy(av) {
				filtered.Fields[key] = av
			}
			continue
		}
		if !reflect.DeepEqual(av, bv) {
			filtered.Fields[key] = av
		}
	}
	return filtered
}

// Override names a checkbox field that, when set on the existing record,
// preserves the existing value of another field.
type Override struct {
	RefField      string
	OverrideField string
}

// OverrideRecord copies back fields the user has overridden remotely: for
// each override whose RefField is set on existing, the existing value of
// OverrideField replaces the incoming one.
func OverrideRecord(rec, existing *Record, overrides []Override) *Record {
	out := rec.Clone()
	for _, o := range overrides {
		if isTruthy(existing.Fields[o.RefField]) {
			out.Fields[o.OverrideField] = existing.Fields[o.OverrideField]
		}
	}
	return out
}

// MergeMethod selects how CompareRecords reconciles two records.
type MergeMethod string

const (
	// MergeOverwrite keeps only the fields of the new record that differ.
	MergeOverwrite MergeMethod = "overwrite"
	// MergeCombine merges field values of both records.
	MergeCombine MergeMethod = "combine"
)

// CompareRecords reconciles a new record a against an existing record b,
// applying overrides first, then the merge method over fields (all fields
// when empty).
func CompareRecords(a, b *Record, method MergeMethod, overrides []Override, fields []string) (*Record, error) {
	if len(overrides) > 0 {
		a = OverrideRecord(a, b, overrides)
	}
	switch method {
	case MergeOverwrite:
		return FilterRecord(a, b, fields), nil
	case MergeCombine:
		return CombineRecords(a, b, fields), nil
	default:
		return nil, fmt.Errorf("unknown merge method %q", method)
	}
}

// LinkTables replaces display values in tableA's link fields with record ids
// resolved against tableB's primary key. Values are comma-separated lists of
// keys; keys with no match are dropped.
func LinkTables(tableA, tableB []*Record, fieldsToLink []string, primaryKeyB string) []*Record {
	primaryKeyB = strings.TrimSpace(primaryKeyB)
	idsByKey := make(map[string]string, len(tableB))
	for _, rec := range tableB {
		if key, ok := rec.Fields[primaryKeyB].(string); ok && key != "" {
			idsByKey[key] = rec.ID
		}
	}

	linked := make([]*Record, 0, len(tableA))
	for _, rec := range tableA {
		out := rec.Clone()
		for _, field := range fieldsToLink {
			field = strings.TrimSpace(field)
			val, ok := rec.Fields[field].(string)
			if !ok || val == "" {
				continue
			}
			var ids []any
			for _, key := range strings.Split(val, ",") {
				if id, ok := idsByKey[strings.TrimSpace(key)]; ok {
					ids = append(ids, id)
				}
			}
			out.Fields[field] = ids
		}
		linked = append(linked, out)
	}
	return linked
}

// GraftFields splits comma-joined string fields into lists, optionally
// sorting the parts. Fields already holding non-string values are left
// alone.
func GraftFields(rec *Record, fields []string, separator string, sortParts bool) *Record {
	out := rec.Clone()
	for _, field := range fields {
		val, ok := out.Fields[field].(string)
		if !ok || val == "" {
			continue
		}
		parts := []string{val}
		if strings.Contains(val, separator) {
			parts = strings.Split(val, separator)
			if sortParts {
				sort.Strings(parts)
			}
		}
		list := make([]any, len(parts))
		for i, p := range parts {
			list[i] = p
		}
		out.Fields[field] = list
	}
	return out
}

// FlattenAttachments reduces attachment objects to their url, the only part
// Airtable accepts back on writes.
func FlattenAttachments(v any) any {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return v
	}
	if _, ok := list[0].(map[string]any); !ok {
		return v
	}
	urls := make([]any, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if u, ok := obj["url"]; ok {
			urls = append(urls, map[string]any{"url": u})
		}
	}
	return urls
}

func fieldNames(rec *Record) []string {
	names := make([]string, 0, len(rec.Fields))
	for name := range rec.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func containsValue(list []any, v any) bool {
	for _, item := range list {
		if reflect.DeepEqual(item, v) {
			return true
		}
	}
	return false
}

// isTruthy mirrors how field presence is judged: nil, empty strings, zero
// numbers, false and empty lists are all absent.
func isTruthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

package airtable

import (
	"encoding/json"
	"time"
)

// Record is one row of a table: an opaque id, a creation timestamp and a
// mapping of field name to value. Field values are whatever JSON Airtable
// returns for the field's type.
type Record struct {
	ID          string         `json:"id,omitempty"`
	CreatedTime time.Time      `json:"createdTime,omitzero"`
	Fields      map[string]any `json:"fields"`
}

// Clone returns a copy of the record with its own fields map. Field values
// are shared.
func (r *Record) Clone() *Record {
	clone := &Record{ID: r.ID, CreatedTime: r.CreatedTime, Fields: make(map[string]any, len(r.Fields))}
	for k, v := range r.Fields {
		clone.Fields[k] = v
	}
	return clone
}

// Field describes one column of a table's schema.
type Field struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Options json.RawMessage `json:"options,omitempty"`
}

// View describes one saved view of a table.
type View struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// UserInfo is the owner of the current token, as reported by the whoami
// endpoint.
type UserInfo struct {
	ID     string   `json:"id"`
	Email  string   `json:"email,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
}

// Wire envelopes. These stay internal; the exported surface hands out Base,
// Table and Record values instead.

type baseList struct {
	Bases  []baseInfo `json:"bases"`
	Offset string     `json:"offset,omitempty"`
}

type baseInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PermissionLevel string `json:"permissionLevel"`
}

type tableList struct {
	Tables []tableInfo `json:"tables"`
}

type tableInfo struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	PrimaryFieldID string  `json:"primaryFieldId"`
	Fields         []Field `json:"fields"`
	Views          []View  `json:"views"`
}

type recordPage struct {
	Records []*Record `json:"records"`
	Offset  string    `json:"offset,omitempty"`
}

type recordBatch struct {
	Records  []*Record `json:"records"`
	Typecast bool      `json:"typecast,omitempty"`
}

type deletedList struct {
	Records []deletedRecord `json:"records"`
}

type deletedRecord struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

package airtable

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// SortDirection orders a sort field ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortField is one sort[n] entry of a record listing.
type SortField struct {
	Field     string
	Direction SortDirection
}

// listParams mirrors the query parameters of the list-records endpoint.
type listParams struct {
	Fields          []string `url:"fields,omitempty,brackets"`
	FilterByFormula string   `url:"filterByFormula,omitempty"`
	View            string   `url:"view,omitempty"`
	PageSize        int      `url:"pageSize,omitempty"`
	MaxRecords      int      `url:"maxRecords,omitempty"`
	Offset          string   `url:"offset,omitempty"`

	sorts []SortField
}

// query encodes the parameters. Sort entries use Airtable's indexed form
// (sort[0][field], sort[0][direction]), which go-querystring cannot express.
func (p *listParams) query() (url.Values, error) {
	values, err := query.Values(p)
	if err != nil {
		return nil, fmt.Errorf("encoding list parameters: %w", err)
	}
	for i, s := range p.sorts {
		values.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
		if s.Direction != "" {
			values.Set(fmt.Sprintf("sort[%d][direction]", i), string(s.Direction))
		}
	}
	return values, nil
}

// ListOption narrows a record listing.
type ListOption func(*listParams)

// ByFormula filters records with a filterByFormula expression.
func ByFormula(formula string) ListOption {
	return func(p *listParams) { p.FilterByFormula = formula }
}

// ByFields restricts the returned field set.
func ByFields(fields ...string) ListOption {
	return func(p *listParams) { p.Fields = fields }
}

// InView scopes the listing to a view id or name.
func InView(view string) ListOption {
	return func(p *listParams) { p.View = view }
}

// WithPageSize sets the records-per-page hint (Airtable caps it at 100).
func WithPageSize(n int) ListOption {
	return func(p *listParams) { p.PageSize = n }
}

// WithMaxRecords caps the total number of records the server returns.
func WithMaxRecords(n int) ListOption {
	return func(p *listParams) { p.MaxRecords = n }
}

// SortBy appends a sort field. Repeat to sort by several fields.
func SortBy(field string, direction SortDirection) ListOption {
	return func(p *listParams) {
		p.sorts = append(p.sorts, SortField{Field: field, Direction: direction})
	}
}

// writeParams collects options shared by create and update calls.
type writeParams struct {
	typecast bool
}

// WriteOption adjusts a create or update call.
type WriteOption func(*writeParams)

// Typecast asks the server to coerce cell values to the field type, e.g.
// creating missing select options.
func Typecast() WriteOption {
	return func(p *writeParams) { p.typecast = true }
}

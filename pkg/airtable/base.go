package airtable

import (
	"fmt"
	"net/http"

	"github.com/airbase-go/airbase/pkg/context"
)

// Base is a handle on one Airtable base. Name and PermissionLevel are only
// populated when the base came from a listing.
type Base struct {
	ID              string
	Name            string
	PermissionLevel string

	client *Client
}

// Tables fetches the base schema and returns a handle per table, with
// fields, views and the primary field populated.
func (b *Base) Tables(ctx context.Context) ([]*Table, error) {
	var schema tableList
	if err := b.client.do(ctx, http.MethodGet, baseSchemaPath(b.ID), nil, nil, &schema); err != nil {
		return nil, err
	}
	tables := make([]*Table, 0, len(schema.Tables))
	for _, info := range schema.Tables {
		tables = append(tables, &Table{
			ID:             info.ID,
			Name:           info.Name,
			Description:    info.Description,
			PrimaryFieldID: info.PrimaryFieldID,
			Fields:         info.Fields,
			Views:          info.Views,
			base:           b,
		})
	}
	ctx.Logger().V(1).Info("fetched tables", "base", b.ID, "count", len(tables))
	return tables, nil
}

// Table resolves a table by id or name, fetching the base schema to match.
func (b *Base) Table(ctx context.Context, idOrName string) (*Table, error) {
	tables, err := b.Tables(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		if t.ID == idOrName || t.Name == idOrName {
			return t, nil
		}
	}
	return nil, fmt.Errorf("table %q not found in base %s", idOrName, b.ID)
}

// TableByName returns a handle addressing a table by name without a schema
// round trip. The handle has no field or view information.
func (b *Base) TableByName(name string) *Table {
	return &Table{Name: name, base: b}
}

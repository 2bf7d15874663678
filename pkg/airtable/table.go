package airtable

import (
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/airbase-go/airbase/pkg/context"
)

// Table is a handle on one table inside a base. Schema information (fields,
// views, primary field) is populated when the handle came from Base.Tables;
// handles built with TableByName address the table by name only.
type Table struct {
	ID             string
	Name           string
	Description    string
	PrimaryFieldID string
	Fields         []Field
	Views          []View

	base *Base
}

// PrimaryFieldName resolves the primary field id against the schema. Empty
// when the handle has no schema.
func (t *Table) PrimaryFieldName() string {
	for _, f := range t.Fields {
		if f.ID == t.PrimaryFieldID {
			return f.Name
		}
	}
	return ""
}

// ident is how record endpoints address the table: id when known, else name.
func (t *Table) ident() string {
	if t.ID != "" {
		return t.ID
	}
	return t.Name
}

func (t *Table) path() string {
	return recordsPath(t.base.ID, t.ident())
}

// Record fetches a single record by id.
func (t *Table) Record(ctx context.Context, recordID string) (*Record, error) {
	if recordID == "" {
		return nil, fmt.Errorf("record id is required")
	}
	var rec Record
	path := recordPath(t.base.ID, t.ident(), recordID)
	if err := t.base.client.do(ctx, http.MethodGet, path, nil, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Records fetches records from the table, following the offset cursor until
// the server stops returning one. Filtering, projection, views, sorting and
// page limits are applied through ListOptions.
func (t *Table) Records(ctx context.Context, opts ...ListOption) ([]*Record, error) {
	params := listParams{}
	for _, opt := range opts {
		opt(&params)
	}

	var records []*Record
	for {
		query, err := params.query()
		if err != nil {
			return nil, err
		}
		var page recordPage
		if err := t.base.client.do(ctx, http.MethodGet, t.path(), query, nil, &page); err != nil {
			return nil, err
		}
		records = append(records, page.Records...)
		if page.Offset == "" {
			break
		}
		params.Offset = page.Offset
	}
	ctx.Logger().V(1).Info("fetched records", "table", t.Name, "count", len(records))
	return records, nil
}

// CreateRecords adds records to the table in batches of 10, concurrently.
// The returned records carry server-assigned ids and creation times, in the
// same order as the input.
func (t *Table) CreateRecords(ctx context.Context, records []*Record, opts ...WriteOption) ([]*Record, error) {
	if err := ValidateRecords(records, false, true); err != nil {
		return nil, err
	}
	params := writeParams{}
	for _, opt := range opts {
		opt(&params)
	}

	created := make([]*Record, len(records))
	err := t.inBatches(ctx, len(records), func(ctx context.Context, lo, hi int) error {
		batch := recordBatch{Records: make([]*Record, 0, hi-lo), Typecast: params.typecast}
		for _, rec := range records[lo:hi] {
			batch.Records = append(batch.Records, &Record{Fields: rec.Fields})
		}
		var page recordPage
		if err := t.base.client.do(ctx, http.MethodPost, t.path(), nil, batch, &page); err != nil {
			return err
		}
		if len(page.Records) != hi-lo {
			return fmt.Errorf("created %d records, expected %d", len(page.Records), hi-lo)
		}
		copy(created[lo:hi], page.Records)
		return nil
	})
	if err != nil {
		return nil, err
	}
	ctx.Logger().V(1).Info("created records", "table", t.Name, "count", len(created))
	return created, nil
}

// UpdateRecords patches records in the table in batches of 10, concurrently.
// Every record must carry an id. Only the provided fields change.
func (t *Table) UpdateRecords(ctx context.Context, records []*Record, opts ...WriteOption) ([]*Record, error) {
	if err := ValidateRecords(records, true, true); err != nil {
		return nil, err
	}
	params := writeParams{}
	for _, opt := range opts {
		opt(&params)
	}

	updated := make([]*Record, len(records))
	err := t.inBatches(ctx, len(records), func(ctx context.Context, lo, hi int) error {
		batch := recordBatch{Records: make([]*Record, 0, hi-lo), Typecast: params.typecast}
		for _, rec := range records[lo:hi] {
			batch.Records = append(batch.Records, &Record{ID: rec.ID, Fields: rec.Fields})
		}
		var page recordPage
		if err := t.base.client.do(ctx, http.MethodPatch, t.path(), nil, batch, &page); err != nil {
			return err
		}
		if len(page.Records) != hi-lo {
			return fmt.Errorf("updated %d records, expected %d", len(page.Records), hi-lo)
		}
		copy(updated[lo:hi], page.Records)
		return nil
	})
	if err != nil {
		return nil, err
	}
	ctx.Logger().V(1).Info("updated records", "table", t.Name, "count", len(updated))
	return updated, nil
}

// DeleteRecords removes records by id in batches of 10, concurrently.
func (t *Table) DeleteRecords(ctx context.Context, ids ...string) error {
	for i, id := range ids {
		if id == "" {
			return fmt.Errorf("record %d: id is required", i)
		}
	}

	err := t.inBatches(ctx, len(ids), func(ctx context.Context, lo, hi int) error {
		query := url.Values{}
		for _, id := range ids[lo:hi] {
			query.Add("records[]", id)
		}
		var deleted deletedList
		if err := t.base.client.do(ctx, http.MethodDelete, t.path(), query, nil, &deleted); err != nil {
			return err
		}
		for _, rec := range deleted.Records {
			if !rec.Deleted {
				return fmt.Errorf("record %s was not deleted", rec.ID)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	ctx.Logger().V(1).Info("deleted records", "table", t.Name, "count", len(ids))
	return nil
}

// inBatches runs fn over [lo, hi) slices of n elements, batchSize at a time,
// one goroutine per batch. The client throttle bounds the request rate.
func (t *Table) inBatches(ctx context.Context, n int, fn func(ctx context.Context, lo, hi int) error) error {
	size := t.base.client.batchSize
	g, gctx := errgroup.WithContext(ctx)
	logged := context.WithLogger(gctx, ctx.Logger())
	for lo := 0; lo < n; lo += size {
		lo := lo
		hi := min(lo+size, n)
		g.Go(func() error {
			return fn(logged, lo, hi)
		})
	}
	return g.Wait()
}

package ssrm

import (
	"context"
	"database/sql"
	"sync"
)

// Page is one grid block plus the total matching count the grid uses to size
// its scrollbar.
type Page struct {
	Rows    []map[string]any
	LastRow int64
}

// RowMapper turns the current driver row into the response shape. Mappers
// must coerce driver types themselves and default unreadable values to nil.
type RowMapper func(*sql.Rows) (map[string]any, error)

// runQueries issues the count query and the windowed rows query over the
// same WHERE clause concurrently. Both are independent reads from the shared
// pool; they share no state and may finish in either order.
func runQueries(ctx context.Context, db *sql.DB, selectCols, table string, b *Builder, orderBy string, win Window, mapRow RowMapper) (Page, error) {
	where := b.WhereClause()
	args := b.Args()

	countQuery := "SELECT COUNT(*) FROM " + table + where
	rowsQuery := "SELECT " + selectCols + " FROM " + table + where
	if orderBy != "" {
		rowsQuery += " " + orderBy
	}
	rowsQuery += " LIMIT ? OFFSET ?"
	rowsArgs := make([]any, 0, len(args)+2)
	rowsArgs = append(rowsArgs, args...)
	rowsArgs = append(rowsArgs, win.Take, win.Offset)

	var (
		wg       sync.WaitGroup
		total    int64
		countErr error
		rows     []map[string]any
		rowsErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		countErr = db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	}()
	go func() {
		defer wg.Done()
		rows, rowsErr = collectRows(ctx, db, rowsQuery, rowsArgs, mapRow)
	}()
	wg.Wait()

	if rowsErr != nil {
		return Page{}, rowsErr
	}
	if countErr != nil {
		return Page{}, countErr
	}
	return Page{Rows: rows, LastRow: total}, nil
}

func collectRows(ctx context.Context, db *sql.DB, query string, args []any, mapRow RowMapper) ([]map[string]any, error) {
	rs, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	out := make([]map[string]any, 0, 64)
	for rs.Next() {
		row, err := mapRow(rs)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

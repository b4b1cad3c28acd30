package sqlexec

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jonwraymond/sqlanalytics/resource"
)

// DiscoverOptions controls schema discovery.
type DiscoverOptions struct {
	IncludeSampleData bool
	MaxSampleRows     int
}

// DiscoverSchema introspects every user table: columns, primary keys,
// foreign keys, database-wide relationships, and optionally a few sample
// rows per table.
func (e *Executor) DiscoverSchema(ctx context.Context, opts DiscoverOptions) (*resource.SchemaPayload, error) {
	if opts.MaxSampleRows <= 0 {
		opts.MaxSampleRows = 5
	}

	names, err := e.tableNames(ctx)
	if err != nil {
		return nil, err
	}

	schema := &resource.SchemaPayload{
		DatabaseType:     "sqlite",
		ConnectionString: e.dsn,
		Tables:           make(map[string]resource.TableSchema, len(names)),
		DiscoveredAt:     time.Now().UTC(),
	}

	for _, name := range names {
		table, err := e.describeTable(ctx, name)
		if err != nil {
			return nil, err
		}
		for _, fk := range table.ForeignKeys {
			schema.Relationships = append(schema.Relationships, resource.Relationship{
				Table:      name,
				Column:     fk.Column,
				References: fk.ReferencesTable + "." + fk.ReferencesColumn,
			})
		}
		if opts.IncludeSampleData {
			samples, err := e.sampleRows(ctx, name, opts.MaxSampleRows)
			if err == nil {
				table.SampleRows = samples
			}
		}
		schema.Tables[name] = table
	}

	return schema, nil
}

// TableSchema introspects a single table.
func (e *Executor) TableSchema(ctx context.Context, name string) (resource.TableSchema, error) {
	return e.describeTable(ctx, name)
}

func (e *Executor) tableNames(ctx context.Context) ([]string, error) {
	rows, err := e.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecution, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExecution, err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (e *Executor) describeTable(ctx context.Context, name string) (resource.TableSchema, error) {
	var table resource.TableSchema

	rows, err := e.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", name))
	if err != nil {
		return table, fmt.Errorf("%w: %v", ErrExecution, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			colName string
			colType string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &dflt, &pk); err != nil {
			return table, fmt.Errorf("%w: %v", ErrExecution, err)
		}
		col := resource.ColumnSchema{
			Name:       colName,
			Type:       colType,
			Nullable:   notNull == 0,
			PrimaryKey: pk > 0,
		}
		if dflt != nil {
			col.Default = fmt.Sprint(normalizeValue(dflt))
		}
		table.Columns = append(table.Columns, col)
		if col.PrimaryKey {
			table.PrimaryKeys = append(table.PrimaryKeys, colName)
		}
	}
	if err := rows.Err(); err != nil {
		return table, fmt.Errorf("%w: %v", ErrExecution, err)
	}

	fks, err := e.foreignKeys(ctx, name)
	if err != nil {
		return table, err
	}
	table.ForeignKeys = fks
	return table, nil
}

func (e *Executor) foreignKeys(ctx context.Context, name string) ([]resource.ForeignKey, error) {
	rows, err := e.db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%q)", name))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecution, err)
	}
	defer rows.Close()

	var fks []resource.ForeignKey
	for rows.Next() {
		var (
			id, seq                   int
			refTable, from            string
			to                        sql.NullString // null when referencing the target's rowid pk
			onUpdate, onDelete, match string
		)
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExecution, err)
		}
		fks = append(fks, resource.ForeignKey{
			Column:           from,
			ReferencesTable:  refTable,
			ReferencesColumn: to.String,
		})
	}
	return fks, rows.Err()
}

func (e *Executor) sampleRows(ctx context.Context, name string, limit int) ([]map[string]any, error) {
	payload, err := e.Execute(ctx, fmt.Sprintf("SELECT * FROM %q LIMIT %d", name, limit))
	if err != nil {
		return nil, err
	}
	return payload.Rows, nil
}

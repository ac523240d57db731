package board

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type (
	TableDef struct {
		Name       string
		Columns    []ColumnDef
		PrimaryKey []string
		Unique     []UniqueDef
	}

	UniqueDef struct {
		Name    string
		Columns []string
	}

	ColumnDef struct {
		Name     string
		Datatype string
		NotNull  bool
	}
)

var (
	// Tables lists every table managed by the migrations
	Tables = []string{"users", "messages", "sessions"}
)

// DescribeTable reads the schema of the given table from sqlite itself,
// columns and indexes are sorted by name and datatypes are reported in uppercase.
func (s *Store) DescribeTable(ctx context.Context, name string) (*TableDef, error) {
	td := TableDef{Name: name}
	rows, err := s.db.QueryContext(ctx, `select name, type, "notnull", pk from pragma_table_info(?) order by name`, name)
	if err != nil {
		return nil, fmt.Errorf("unable to read columns of %v, cause %w", name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var col ColumnDef
		var pk int
		if err := rows.Scan(&col.Name, &col.Datatype, &col.NotNull, &pk); err != nil {
			return nil, fmt.Errorf("unable to read columns of %v, cause %w", name, err)
		}
		col.Datatype = strings.ToUpper(col.Datatype)
		if pk > 0 {
			td.PrimaryKey = append(td.PrimaryKey, col.Name)
		}
		td.Columns = append(td.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(td.Columns) == 0 {
		return nil, sql.ErrNoRows
	}

	var indexes []string
	err = s.db.SelectContext(ctx, &indexes, `select name from pragma_index_list(?) where [unique] = 1 order by name`, name)
	if err != nil {
		return nil, fmt.Errorf("unable to list unique indexes of %v, cause %w", name, err)
	}
	for _, idx := range indexes {
		ud := UniqueDef{Name: idx}
		err = s.db.SelectContext(ctx, &ud.Columns, `select name from pragma_index_info(?) order by name`, idx)
		if err != nil {
			return nil, fmt.Errorf("unable to read index %v, cause %w", idx, err)
		}
		td.Unique = append(td.Unique, ud)
	}
	return &td, nil
}

// UniqueOn reports whether the table has a unique index covering exactly column
func (t *TableDef) UniqueOn(column string) bool {
	for _, u := range t.Unique {
		if len(u.Columns) == 1 && u.Columns[0] == column {
			return true
		}
	}
	return false
}

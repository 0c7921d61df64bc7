// Package gateway persists named output tables with replace-or-create
// semantics: each write fully overwrites any same-named prior table. The
// pipeline core never inspects the backing storage format.
package gateway

import (
	"context"
	"fmt"
)

type ColumnType int

const (
	Text ColumnType = iota
	Float
	Integer
	Timestamp
)

type Column struct {
	Name string
	Type ColumnType
}

// Table is the wire format handed to a gateway: a name, a typed column
// list, and row values in column order. Null cells are nil.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

type Gateway interface {
	Connect(dsn string) error
	Close() error
	Replace(ctx context.Context, table Table) error
}

func sqlColumnType(t ColumnType, driver string) string {
	switch t {
	case Float:
		if driver == "mysql" {
			return "DOUBLE"
		}
		return "DOUBLE PRECISION"
	case Integer:
		return "BIGINT"
	case Timestamp:
		if driver == "mysql" {
			return "DATETIME"
		}
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

func createStatement(table Table, driver string) string {
	stmt := "CREATE TABLE " + table.Name + " ("
	for i, col := range table.Columns {
		if i > 0 {
			stmt += ", "
		}
		stmt += fmt.Sprintf("%s %s", col.Name, sqlColumnType(col.Type, driver))
	}
	return stmt + ")"
}

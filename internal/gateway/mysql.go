package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

type MySQLGateway struct {
	db *sql.DB
}

func (mg *MySQLGateway) Connect(dsn string) error {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	mg.db = db
	return nil
}

func (mg *MySQLGateway) Close() error {
	return mg.db.Close()
}

// Replace rewrites the named table. MySQL DDL commits implicitly, so the
// drop/create pair runs outside a transaction and the row inserts inside
// one.
func (mg *MySQLGateway) Replace(ctx context.Context, table Table) error {
	if _, err := mg.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table.Name)); err != nil {
		return err
	}
	if _, err := mg.db.ExecContext(ctx, createStatement(table, "mysql")); err != nil {
		return err
	}
	if len(table.Rows) == 0 {
		return nil
	}

	tx, err := mg.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(table.Columns)), ", ") + ")"
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES %s", table.Name, placeholders))
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, row := range table.Rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

package gateway

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type PostgresGateway struct {
	conn *pgx.Conn
}

func (pg *PostgresGateway) Connect(dsn string) error {
	conn, err := pgx.Connect(context.Background(), dsn)
	if err != nil {
		return err
	}
	pg.conn = conn
	return nil
}

func (pg *PostgresGateway) Close() error {
	return pg.conn.Close(context.Background())
}

// Replace drops and recreates the table inside one transaction, so a
// reader never observes a partially written output.
func (pg *PostgresGateway) Replace(ctx context.Context, table Table) (err error) {
	tx, err := pg.conn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback(ctx)
			panic(p) // re-panic after rollback
		} else if err != nil {
			tx.Rollback(ctx) // err is non-nil; don't change it
		} else {
			err = tx.Commit(ctx) // err is nil; if Commit returns error, update err
		}
	}()

	if _, err = tx.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table.Name)); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, createStatement(table, "postgres")); err != nil {
		return err
	}

	columnNames := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		columnNames[i] = col.Name
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{table.Name}, columnNames, pgx.CopyFromRows(table.Rows))
	return err
}

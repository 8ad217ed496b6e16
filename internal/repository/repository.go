// Пакет repository — слой доступа к таблицам LMS в PostgreSQL.
// Все запросы — чистый SQL через pgx, без ORM; только чтение.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
)

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется как *pgxpool.Pool, так и pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Tables строит экранированные имена таблиц LMS с учётом префикса.
type Tables struct {
	prefix string
}

// NewTables создаёт построитель имён таблиц с префиксом (например, "mdl_").
func NewTables(prefix string) Tables {
	return Tables{prefix: prefix}
}

// Name возвращает экранированное имя таблицы: Name("user") → "mdl_user" в кавычках.
func (t Tables) Name(base string) string {
	return pgx.Identifier{t.prefix + base}.Sanitize()
}

// isUndefinedTable проверяет, что ошибка — обращение к несуществующей таблице.
func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P01" // undefined_table
	}
	return false
}

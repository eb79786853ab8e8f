package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// duplicate_object: повторный add constraint
const codeDuplicateObject = "42710"

// Result — итог ApplyDDL.
type Result struct {
	Applied int      `json:"applied"`
	Skipped []string `json:"skipped,omitempty"`
}

// Keys — ключи шагов в порядке выполнения.
func Keys(ddl map[string]string) []string {
	keys := make([]string, 0, len(ddl))
	for k := range ddl {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Statements режет шаг на операторы. GenerateDDL пишет каждый оператор
// с новой строки и заканчивает ";", идентификаторы всегда в кавычках.
func Statements(step string) []string {
	var out []string
	for _, s := range strings.Split(step, ";\n") {
		s = strings.TrimSuffix(strings.TrimSpace(s), ";")
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ApplyDDL выполняет шаги по порядку ключей, каждый оператор отдельно.
// Таблицы создаются через if not exists, уже существующие ограничения пропускаются,
// поэтому повторный прогон того же документа безопасен.
func ApplyDDL(ctx context.Context, db *sql.DB, ddl map[string]string) (Result, error) {
	var res Result
	for _, k := range Keys(ddl) {
		for _, stmt := range Statements(ddl[k]) {
			_, err := db.ExecContext(ctx, stmt)
			if err == nil {
				res.Applied++
				continue
			}
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == codeDuplicateObject {
				msg := strings.TrimSpace(pgErr.Message)
				log.Printf("DDL skipped (%s): %s", k, msg)
				res.Skipped = append(res.Skipped, msg)
				continue
			}
			return res, fmt.Errorf("DDL apply failed (%s): %w", k, err)
		}
	}
	return res, nil
}

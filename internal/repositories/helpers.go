package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/karaokeos/backend/internal/models"
)

// mysqlDuplicateEntry is the server error number of a unique key violation
const mysqlDuplicateEntry = 1062

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// isDuplicateKey reports whether err is a MySQL unique key violation
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching value anywhere in a column
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}

// expectRow maps a statement that touched no row to models.ErrNotFound
func expectRow(result sql.Result, entity string, id int) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, models.ErrNotFound)
	}
	return nil
}

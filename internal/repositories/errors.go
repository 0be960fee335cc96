package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// mysqlErrDuplicateEntry is returned by MySQL when a unique key is violated
const mysqlErrDuplicateEntry = 1062

// isDuplicateEntry reports whether err is a MySQL unique key violation
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry
}

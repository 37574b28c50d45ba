package sqlstore

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// Name checks compare fold(column) = fold(?). SQLite's LOWER only maps ASCII
// letters, so fold is registered with Go's Unicode case mapping; on
// PostgreSQL it is a SQL function over LOWER created by migration 000002.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("fold", 1, foldText)
}

func foldText(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

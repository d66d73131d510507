package sqlite

import (
	"database/sql/driver"
	"strings"

	msqlite "modernc.org/sqlite"
)

// foldFunction lowercases text with Unicode case rules. SQLite's built-in
// lower() only folds ASCII letters.
const foldFunction = "unicode_lower"

func init() {
	msqlite.MustRegisterDeterministicScalarFunction(foldFunction, 1, unicodeLower)
}

func unicodeLower(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

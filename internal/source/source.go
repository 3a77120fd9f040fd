// Package source loads tabular data from either a file path
// (csv/json/parquet, via internal/codec) or a database DSN (see
// DESIGN.md for the driver-selection/DSN-building lineage). No other
// package calls it; table_join joins two values it is already given.
package source

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"dsq/internal/codec"
	"dsq/internal/dsqerr"
	"dsq/internal/value"
)

// DBSource describes a database connection used to load join data.
type DBSource struct {
	Driver   string // mysql, postgres, sqlite3, sqlserver
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Query    string
}

func (s DBSource) dsn() (string, error) {
	switch strings.ToLower(s.Driver) {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", s.Username, s.Password, s.Host, s.Port, s.Database), nil
	case "postgres", "postgresql":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			s.Host, s.Port, s.Username, s.Password, s.Database), nil
	case "sqlite3", "sqlite":
		return s.Database, nil
	case "sqlserver", "mssql":
		return fmt.Sprintf("server=%s;port=%d;user id=%s;password=%s;database=%s",
			s.Host, s.Port, s.Username, s.Password, s.Database), nil
	default:
		return "", dsqerr.New(dsqerr.KindConfig, "unsupported database driver "+s.Driver)
	}
}

// driverName maps a friendly driver identifier to its registered
// database/sql driver name.
func (s DBSource) driverName() string {
	switch strings.ToLower(s.Driver) {
	case "postgres", "postgresql":
		return "postgres"
	case "sqlite", "sqlite3":
		return "sqlite3"
	case "sqlserver", "mssql":
		return "sqlserver"
	default:
		return "mysql"
	}
}

// LoadDB runs Query against the database and returns the result set as
// a frame value. Column names come from the driver's reported columns;
// every column is declared DTypeString whatever its cell values are.
func LoadDB(s DBSource) (value.Value, error) {
	dsn, err := s.dsn()
	if err != nil {
		return value.Null, err
	}
	db, err := sql.Open(s.driverName(), dsn)
	if err != nil {
		return value.Null, dsqerr.New(dsqerr.KindIO, "source: "+err.Error())
	}
	defer db.Close()

	rows, err := db.Query(s.Query)
	if err != nil {
		return value.Null, dsqerr.New(dsqerr.KindIO, "source: "+err.Error())
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return value.Null, dsqerr.New(dsqerr.KindIO, "source: "+err.Error())
	}

	columns := make([][]value.Value, len(cols))
	for rows.Next() {
		raw := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return value.Null, dsqerr.New(dsqerr.KindIO, "source: "+err.Error())
		}
		for i, r := range raw {
			columns[i] = append(columns[i], sqlValueToValue(r))
		}
	}
	if err := rows.Err(); err != nil {
		return value.Null, dsqerr.New(dsqerr.KindIO, "source: "+err.Error())
	}

	series := make([]*value.Series, len(cols))
	for i, name := range cols {
		series[i] = value.NewSeries(name, value.DTypeString, columns[i])
	}
	f, err := value.NewFrame(series)
	if err != nil {
		return value.Null, dsqerr.New(dsqerr.KindIO, "source: "+err.Error())
	}
	return value.FrameValue(f), nil
}

func sqlValueToValue(raw interface{}) value.Value {
	switch t := raw.(type) {
	case nil:
		return value.Null
	case int64:
		return value.Int(t)
	case float64:
		return value.Float(t)
	case bool:
		return value.Bool(t)
	case []byte:
		return value.String(string(t))
	case string:
		return value.String(t)
	default:
		return value.String(fmt.Sprintf("%v", t))
	}
}

// LoadFile loads a tabular value from a file path, dispatching on
// extension.
func LoadFile(path string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Null, dsqerr.New(dsqerr.KindIO, "source: "+err.Error())
	}
	format, ok := codec.DetectFromPath(path)
	if !ok {
		format = codec.FormatJSON
	}
	return codec.Decode(format, data, codec.DefaultOptions())
}

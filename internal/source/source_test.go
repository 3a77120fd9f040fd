package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dsq/internal/value"
)

func TestDSNMySQL(t *testing.T) {
	s := DBSource{Driver: "mysql", Host: "db", Port: 3306, Database: "app", Username: "u", Password: "p"}
	dsn, err := s.dsn()
	if err != nil {
		t.Fatalf("dsn: %v", err)
	}
	want := "u:p@tcp(db:3306)/app"
	if dsn != want {
		t.Fatalf("dsn = %q, want %q", dsn, want)
	}
}

func TestDSNPostgres(t *testing.T) {
	s := DBSource{Driver: "postgres", Host: "db", Port: 5432, Database: "app", Username: "u", Password: "p"}
	dsn, err := s.dsn()
	if err != nil {
		t.Fatalf("dsn: %v", err)
	}
	if !strings.Contains(dsn, "host=db") || !strings.Contains(dsn, "dbname=app") {
		t.Fatalf("dsn = %q missing expected fields", dsn)
	}
}

func TestDSNSQLite(t *testing.T) {
	s := DBSource{Driver: "sqlite3", Database: "/tmp/app.db"}
	dsn, err := s.dsn()
	if err != nil {
		t.Fatalf("dsn: %v", err)
	}
	if dsn != "/tmp/app.db" {
		t.Fatalf("dsn = %q, want bare path", dsn)
	}
}

func TestDSNUnsupportedDriver(t *testing.T) {
	s := DBSource{Driver: "oracle"}
	if _, err := s.dsn(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestDriverNameNormalization(t *testing.T) {
	cases := map[string]string{
		"postgresql": "postgres",
		"sqlite":     "sqlite3",
		"mssql":      "sqlserver",
		"mysql":      "mysql",
		"":           "mysql",
	}
	for in, want := range cases {
		s := DBSource{Driver: in}
		if got := s.driverName(); got != want {
			t.Fatalf("driverName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadFileCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rows.csv")
	if err := os.WriteFile(path, []byte("name,age\nalice,30\nbob,25\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	v, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if v.Kind() != value.KindFrame {
		t.Fatalf("expected a frame, got %v", v.Kind())
	}
	if v.AsFrame().NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", v.AsFrame().NumRows())
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/path.csv"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

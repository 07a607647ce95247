// Package datarecording stores simulation results in SQLite databases.
package datarecording

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/fatih/structs"

	// Registers the sqlite3 driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// A DataRecorder turns flat structs into table rows. Rows are buffered until
// Flush.
type DataRecorder interface {
	// CreateTable creates a table with one column per field of sampleEntry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers a row. The entry must have the type the table was
	// created with.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all tables, sorted.
	ListTables() []string

	// Flush writes the buffered rows in one transaction.
	Flush()
}

// DefaultName returns a fresh database name of the form vmsim_<xid>.
func DefaultName() string {
	return "vmsim_" + xid.New().String()
}

// New creates a DataRecorder that writes into <path>.sqlite3. An empty path
// picks a unique name. The file must not exist yet. Buffered rows are flushed
// when the program exits through atexit.
func New(path string) (DataRecorder, error) {
	if path == "" {
		path = DefaultName()
	}

	filename := path
	if !strings.HasSuffix(filename, ".sqlite3") {
		filename += ".sqlite3"
	}

	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	r := newSQLiteRecorder(db)

	atexit.Register(r.Flush)

	return r, nil
}

// NewWithDB records into an open database. Transactions are issued as plain
// statements, so db should be limited to one connection.
func NewWithDB(db *sql.DB) DataRecorder {
	return newSQLiteRecorder(db)
}

type tableBuffer struct {
	rowType reflect.Type
	rows    []any
}

var columnKinds = map[reflect.Kind]bool{
	reflect.Bool:    true,
	reflect.Int:     true,
	reflect.Int8:    true,
	reflect.Int16:   true,
	reflect.Int32:   true,
	reflect.Int64:   true,
	reflect.Uint:    true,
	reflect.Uint8:   true,
	reflect.Uint16:  true,
	reflect.Uint32:  true,
	reflect.Uint64:  true,
	reflect.Float32: true,
	reflect.Float64: true,
	reflect.String:  true,
}

type sqliteRecorder struct {
	*sql.DB

	tables    map[string]*tableBuffer
	batchSize int
	pending   int
}

func newSQLiteRecorder(db *sql.DB) *sqliteRecorder {
	return &sqliteRecorder{
		DB:        db,
		tables:    make(map[string]*tableBuffer),
		batchSize: 100000,
	}
}

// validateRow checks that every field of entry maps onto a SQLite column.
func validateRow(entry any) error {
	rowType := reflect.TypeOf(entry)
	if rowType == nil || rowType.Kind() != reflect.Struct {
		return errors.New("entry must be a struct")
	}

	for i := 0; i < rowType.NumField(); i++ {
		field := rowType.Field(i)

		if !field.IsExported() {
			return fmt.Errorf("field %s is not exported", field.Name)
		}

		if !columnKinds[field.Type.Kind()] {
			return fmt.Errorf("field %s has unsupported type %s",
				field.Name, field.Type)
		}
	}

	return nil
}

func (r *sqliteRecorder) CreateTable(tableName string, sampleEntry any) {
	if err := validateRow(sampleEntry); err != nil {
		panic(err)
	}

	columns := strings.Join(structs.Names(sampleEntry), ", ")
	r.mustExecute(fmt.Sprintf("CREATE TABLE %s (%s);", tableName, columns))

	r.tables[tableName] = &tableBuffer{
		rowType: reflect.TypeOf(sampleEntry),
	}
}

func (r *sqliteRecorder) InsertData(tableName string, entry any) {
	buf, ok := r.tables[tableName]
	if !ok {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != buf.rowType {
		panic(fmt.Sprintf("entry of type %T does not match table %s",
			entry, tableName))
	}

	buf.rows = append(buf.rows, entry)

	r.pending++
	if r.pending >= r.batchSize {
		r.Flush()
	}
}

func (r *sqliteRecorder) ListTables() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (r *sqliteRecorder) Flush() {
	if r.pending == 0 {
		return
	}

	r.mustExecute("BEGIN TRANSACTION")
	defer r.mustExecute("COMMIT TRANSACTION")

	for _, name := range r.ListTables() {
		buf := r.tables[name]
		if len(buf.rows) == 0 {
			continue
		}

		r.insertRows(name, buf)
		buf.rows = nil
	}

	r.pending = 0
}

func (r *sqliteRecorder) insertRows(tableName string, buf *tableBuffer) {
	numFields := buf.rowType.NumField()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", numFields), ", ")

	stmt, err := r.Prepare(fmt.Sprintf("INSERT INTO %s VALUES (%s)",
		tableName, placeholders))
	if err != nil {
		panic(err)
	}
	defer stmt.Close()

	args := make([]any, numFields)
	for _, row := range buf.rows {
		v := reflect.ValueOf(row)
		for i := range args {
			args[i] = v.Field(i).Interface()
		}

		if _, err := stmt.Exec(args...); err != nil {
			panic(err)
		}
	}
}

func (r *sqliteRecorder) mustExecute(query string) sql.Result {
	res, err := r.Exec(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}

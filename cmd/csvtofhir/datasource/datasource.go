package datasource

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/pipeline"
)

// DefaultDriver is used for DSNs registered without a driver
const DefaultDriver = "postgres"

// DataSourceService runs the SQL queries backing join_data tasks
type DataSourceService struct {
	opener  pipeline.Opener
	connect func(driver, dsn string) (*sqlx.DB, error)
	mu      sync.Mutex
	dbs     map[string]*sqlx.DB
	queries map[string]string // reference -> query
	log     zerolog.Logger
}

// NewDataSourceService creates a new DataSourceService loading query files through opener
func NewDataSourceService(opener pipeline.Opener, log zerolog.Logger) *DataSourceService {
	return &DataSourceService{
		opener:  opener,
		connect: sqlx.Connect,
		dbs:     make(map[string]*sqlx.DB),
		queries: make(map[string]string),
		log:     log,
	}
}

// Register makes db available under dsn
func (svc *DataSourceService) Register(dsn string, db *sqlx.DB) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.dbs[dsn] = db
}

// Close closes every connection pool opened by the service
func (svc *DataSourceService) Close() error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	var firstErr error
	for dsn, db := range svc.dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(svc.dbs, dsn)
	}
	return firstErr
}

func (svc *DataSourceService) db(driver, dsn string) (*sqlx.DB, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if db, ok := svc.dbs[dsn]; ok {
		return db, nil
	}
	if driver == "" {
		driver = DefaultDriver
	}
	db, err := svc.connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}
	svc.dbs[dsn] = db
	return db, nil
}

// LoadQueryFile loads the query stored in ref, caching it by reference
func (svc *DataSourceService) LoadQueryFile(ctx context.Context, ref string) (string, error) {
	svc.mu.Lock()
	query, ok := svc.queries[ref]
	svc.mu.Unlock()
	if ok {
		return query, nil
	}

	file, err := svc.opener.Open(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("failed to open query file %s: %w", ref, err)
	}
	defer file.Close()

	b, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read query file %s: %w", ref, err)
	}

	svc.mu.Lock()
	svc.queries[ref] = string(b)
	svc.mu.Unlock()
	svc.log.Debug().
		Str("file", ref).
		Msg("Loaded query file")
	return string(b), nil
}

// Query executes query against dsn and returns the rows as a batch. NULL
// columns become null cells and byte values are read as strings.
func (svc *DataSourceService) Query(ctx context.Context, driver, dsn, query string) (*pipeline.Batch, error) {
	db, err := svc.db(driver, dsn)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("error reading columns: %w", err)
	}
	b := pipeline.NewBatch(columns, nil)
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		for key, value := range row {
			if raw, ok := value.([]byte); ok {
				row[key] = string(raw)
			}
		}
		b.Rows = append(b.Rows, pipeline.Row(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	svc.log.Debug().
		Int("rows", b.Len()).
		Int("columns", len(columns)).
		Msg("Completed query")
	return b, nil
}

// LoadJoin reads the query file ref and runs it against the database named
// by the "dsn" reader parameter, with an optional "driver".
func (svc *DataSourceService) LoadJoin(ctx context.Context, ref string, readerParams map[string]any) (*pipeline.Batch, error) {
	dsn, _ := readerParams["dsn"].(string)
	if dsn == "" {
		return nil, fmt.Errorf("reader_params.dsn is required for sql joins")
	}
	driver, _ := readerParams["driver"].(string)
	query, err := svc.LoadQueryFile(ctx, ref)
	if err != nil {
		return nil, err
	}
	return svc.Query(ctx, driver, dsn, query)
}

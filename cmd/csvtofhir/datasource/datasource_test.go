package datasource

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapOpener map[string]string

func (m mapOpener) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	s, ok := m[ref]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(strings.NewReader(s)), nil
}

func newMockService(t *testing.T, queries mapOpener) (*DataSourceService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	svc := NewDataSourceService(queries, zerolog.Nop())
	svc.Register("postgres://test", sqlx.NewDb(db, "sqlmock"))
	t.Cleanup(func() { _ = svc.Close() })
	return svc, mock
}

func TestLoadJoin(t *testing.T) {
	svc, mock := newMockService(t, mapOpener{"addresses.sql": "SELECT mrn, address, note FROM addresses"})
	mock.ExpectQuery("SELECT mrn, address, note FROM addresses").
		WillReturnRows(sqlmock.NewRows([]string{"mrn", "address", "note"}).
			AddRow("1", []byte("Main St"), nil).
			AddRow("2", "Elm St", "x"))

	b, err := svc.LoadJoin(context.Background(), "addresses.sql", map[string]any{"dsn": "postgres://test"})
	require.NoError(t, err)

	assert.Equal(t, []string{"mrn", "address", "note"}, b.Columns)
	require.Equal(t, 2, b.Len())
	assert.Equal(t, "Main St", b.Rows[0]["address"])
	assert.Nil(t, b.Rows[0]["note"])
	assert.Equal(t, "Elm St", b.Rows[1]["address"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadJoinRequiresDSN(t *testing.T) {
	svc, _ := newMockService(t, mapOpener{})
	_, err := svc.LoadJoin(context.Background(), "addresses.sql", map[string]any{})
	assert.Error(t, err)
}

func TestLoadQueryFileIsCached(t *testing.T) {
	queries := mapOpener{"q.sql": "SELECT 1"}
	svc, _ := newMockService(t, queries)

	q, err := svc.LoadQueryFile(context.Background(), "q.sql")
	require.NoError(t, err)
	delete(queries, "q.sql")

	again, err := svc.LoadQueryFile(context.Background(), "q.sql")
	require.NoError(t, err)
	assert.Equal(t, q, again)

	_, err = svc.LoadQueryFile(context.Background(), "missing.sql")
	assert.Error(t, err)
}

func TestQueryError(t *testing.T) {
	svc, mock := newMockService(t, mapOpener{})
	mock.ExpectQuery("SELECT broken").WillReturnError(assert.AnError)

	_, err := svc.Query(context.Background(), "", "postgres://test", "SELECT broken")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestConnectFailure(t *testing.T) {
	svc := NewDataSourceService(mapOpener{}, zerolog.Nop())
	svc.connect = func(driver, dsn string) (*sqlx.DB, error) {
		assert.Equal(t, DefaultDriver, driver)
		return nil, assert.AnError
	}
	_, err := svc.Query(context.Background(), "", "postgres://nowhere", "SELECT 1")
	assert.ErrorIs(t, err, assert.AnError)
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/evyataryagoni/geoconsole/internal/geo"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock database for testing
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	return db, mock, sqlDB
}

var sessionColumns = []string{"id", "records", "statistics", "page", "last_query", "query_time", "queried", "updated_at"}

// TestMySQLStore_Get_Success tests loading a session row
func TestMySQLStore_Get_Success(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	store := &MySQLStore{db: db}

	rows := sqlmock.NewRows(sessionColumns).AddRow(
		"s1",
		[]byte(`[{"id":"1","type":"Point","coordinates":[1.5,2.5]},{"id":"2","type":"Line","coordinates":"[(0, 0), (5, 5)]"}]`),
		[]byte(`{"point_count":1,"line_count":1,"polygon_count":0}`),
		[]byte(`{"current_page":1,"items_per_page":10,"total_items":2}`),
		"0,0 1,0 1,1",
		0.25,
		true,
		time.Now(),
	)

	// GORM adds LIMIT 1 to First() queries, so we expect 2 args: id and limit
	mock.ExpectQuery("SELECT \\* FROM `console_sessions` WHERE id = \\? .*").
		WithArgs("s1", 1).
		WillReturnRows(rows)

	sess, err := store.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sess.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(sess.Records))
	}
	if sess.Records[0].Coordinates.Kind != geo.KindPoint {
		t.Errorf("expected point, got %s", sess.Records[0].Coordinates.Kind)
	}
	if sess.Statistics.LineCount != 1 {
		t.Errorf("expected 1 line, got %d", sess.Statistics.LineCount)
	}
	if sess.Page.TotalItems != 2 || sess.LastQuery != "0,0 1,0 1,1" || !sess.Queried {
		t.Errorf("unexpected session: %+v", sess)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestMySQLStore_Get_NotFound tests a missing row
func TestMySQLStore_Get_NotFound(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	store := &MySQLStore{db: db}

	mock.ExpectQuery("SELECT \\* FROM `console_sessions` WHERE id = \\? .*").
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows(sessionColumns))

	sess, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if sess != nil {
		t.Error("expected nil session")
	}

	mock.ExpectationsWereMet()
}

// TestMySQLStore_Get_Expired tests that stale rows are treated as missing
func TestMySQLStore_Get_Expired(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	store := &MySQLStore{db: db, ttl: time.Hour}

	rows := sqlmock.NewRows(sessionColumns).
		AddRow("s1", []byte(`[]`), []byte(`{}`), []byte(`{}`), "", 0.0, false, time.Now().Add(-2*time.Hour))

	mock.ExpectQuery("SELECT \\* FROM `console_sessions` WHERE id = \\? .*").
		WithArgs("s1", 1).
		WillReturnRows(rows)

	if _, err := store.Get(context.Background(), "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}

	mock.ExpectationsWereMet()
}

// TestMySQLStore_Get_DatabaseError tests database errors
func TestMySQLStore_Get_DatabaseError(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	store := &MySQLStore{db: db}

	mock.ExpectQuery("SELECT \\* FROM `console_sessions` WHERE id = \\? .*").
		WithArgs("s1", 1).
		WillReturnError(sql.ErrConnDone)

	_, err := store.Get(context.Background(), "s1")
	if err == nil {
		t.Fatal("expected database error, got nil")
	}
	if errors.Is(err, ErrSessionNotFound) {
		t.Error("expected database error, got not found error")
	}
	if !errors.Is(err, sql.ErrConnDone) {
		t.Errorf("expected wrapped sql.ErrConnDone, got %v", err)
	}

	mock.ExpectationsWereMet()
}

// TestMySQLStore_Save tests the upsert
func TestMySQLStore_Save(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	store := &MySQLStore{db: db}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `console_sessions` .* ON DUPLICATE KEY UPDATE .*").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := store.Save(context.Background(), sampleSession("s1", 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestMySQLStore_Save_Error tests a failing upsert
func TestMySQLStore_Save_Error(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	store := &MySQLStore{db: db}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `console_sessions`").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	if err := store.Save(context.Background(), sampleSession("s1", 2)); err == nil {
		t.Error("expected error, got nil")
	}

	mock.ExpectationsWereMet()
}

// TestMySQLStore_Delete tests row removal
func TestMySQLStore_Delete(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	store := &MySQLStore{db: db}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `console_sessions` WHERE id = \\?").
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := store.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestMySQLStore_Close tests cleanup
func TestMySQLStore_Close(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	store := &MySQLStore{db: db}

	mock.ExpectClose()

	if err := store.Close(); err != nil {
		t.Errorf("unexpected error on close: %v", err)
	}

	mock.ExpectationsWereMet()
}

// TestMySQLStore_Close_NilDB tests close with nil db
func TestMySQLStore_Close_NilDB(t *testing.T) {
	store := &MySQLStore{db: nil}

	if err := store.Close(); err != nil {
		t.Errorf("expected no error for nil db, got: %v", err)
	}
}

// TestSessionModel_TableName tests GORM table name override
func TestSessionModel_TableName(t *testing.T) {
	if name := (SessionModel{}).TableName(); name != "console_sessions" {
		t.Errorf("expected table name 'console_sessions', got '%s'", name)
	}
}

// TestSessionModel_RoundTrip tests the row conversion helpers
func TestSessionModel_RoundTrip(t *testing.T) {
	sess := sampleSession("s1", 11)
	sess.Page.GoTo(2)

	row, err := newSessionModel(sess)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	back, err := row.toSession()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.ID != "s1" || len(back.Records) != 11 || back.Page.CurrentPage != 2 {
		t.Errorf("unexpected session: %+v", back)
	}
}

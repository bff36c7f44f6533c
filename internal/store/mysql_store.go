package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/evyataryagoni/geoconsole/internal/models"
	"github.com/evyataryagoni/geoconsole/internal/pagination"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SessionModel is the GORM model for the console_sessions table
// Records and page state are kept as JSON columns
type SessionModel struct {
	ID         string    `gorm:"column:id;primaryKey;size:64"`
	Records    []byte    `gorm:"column:records;type:json"`
	Statistics []byte    `gorm:"column:statistics;type:json"`
	Page       []byte    `gorm:"column:page;type:json"`
	LastQuery  string    `gorm:"column:last_query;type:text"`
	QueryTime  float64   `gorm:"column:query_time"`
	Queried    bool      `gorm:"column:queried"`
	UpdatedAt  time.Time `gorm:"column:updated_at;index"`
}

// TableName specifies the table name for GORM
// By default, GORM would pluralize to "session_models"
func (SessionModel) TableName() string {
	return "console_sessions"
}

// MySQLStore implements Store interface using MySQL with GORM
type MySQLStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewMySQLStore creates a new MySQL store using GORM
//
// Parameters:
//   - dsn: Data Source Name (connection string)
//     Format: user:password@tcp(host:port)/dbname?parseTime=true
//     Example: root:password@tcp(localhost:3306)/geoconsole?parseTime=true
//   - ttl: sessions older than this are treated as missing (0 disables expiry)
//
// Returns:
//   - *MySQLStore: pointer to the created store
//   - error: any error that occurred during connection or migration
func NewMySQLStore(dsn string, ttl time.Duration) (*MySQLStore, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Set to Info for query logging
	}

	db, err := gorm.Open(mysql.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL with GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL database: %w", err)
	}

	if err := db.AutoMigrate(&SessionModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate console_sessions: %w", err)
	}

	return &MySQLStore{db: db, ttl: ttl}, nil
}

// Get implements the Store interface
// SELECT * FROM console_sessions WHERE id = ? LIMIT 1
func (s *MySQLStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var record SessionModel

	result := s.db.WithContext(ctx).Where("id = ?", id).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("database query failed: %w", result.Error)
	}

	if s.ttl > 0 && time.Since(record.UpdatedAt) > s.ttl {
		return nil, ErrSessionNotFound
	}

	return record.toSession()
}

// Save implements the Store interface
// INSERT ... ON DUPLICATE KEY UPDATE on the primary key
func (s *MySQLStore) Save(ctx context.Context, sess *models.Session) error {
	record, err := newSessionModel(sess)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(record)
	if result.Error != nil {
		return fmt.Errorf("failed to save session: %w", result.Error)
	}
	return nil
}

// Delete implements the Store interface
func (s *MySQLStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&SessionModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the database connection
// Should be called when the application shuts down
func (s *MySQLStore) Close() error {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// newSessionModel converts a domain session into its row representation
func newSessionModel(sess *models.Session) (*SessionModel, error) {
	records := sess.Records
	if records == nil {
		records = []models.GeoRecord{}
	}

	recordsJSON, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	statsJSON, err := json.Marshal(sess.Statistics)
	if err != nil {
		return nil, fmt.Errorf("failed to encode statistics: %w", err)
	}
	pageJSON, err := json.Marshal(sess.Page)
	if err != nil {
		return nil, fmt.Errorf("failed to encode page state: %w", err)
	}

	return &SessionModel{
		ID:         sess.ID,
		Records:    recordsJSON,
		Statistics: statsJSON,
		Page:       pageJSON,
		LastQuery:  sess.LastQuery,
		QueryTime:  sess.QueryTime,
		Queried:    sess.Queried,
		UpdatedAt:  time.Now(),
	}, nil
}

// toSession converts a row back into a domain session
func (m *SessionModel) toSession() (*models.Session, error) {
	sess := &models.Session{
		ID:        m.ID,
		Records:   []models.GeoRecord{},
		Page:      pagination.NewState(pagination.ItemsPerPage),
		LastQuery: m.LastQuery,
		QueryTime: m.QueryTime,
		Queried:   m.Queried,
		UpdatedAt: m.UpdatedAt,
	}

	if len(m.Records) > 0 {
		if err := json.Unmarshal(m.Records, &sess.Records); err != nil {
			return nil, fmt.Errorf("failed to decode records: %w", err)
		}
	}
	if len(m.Statistics) > 0 {
		if err := json.Unmarshal(m.Statistics, &sess.Statistics); err != nil {
			return nil, fmt.Errorf("failed to decode statistics: %w", err)
		}
	}
	if len(m.Page) > 0 {
		if err := json.Unmarshal(m.Page, &sess.Page); err != nil {
			return nil, fmt.Errorf("failed to decode page state: %w", err)
		}
	}
	if sess.Records == nil {
		sess.Records = []models.GeoRecord{}
	}
	return sess, nil
}

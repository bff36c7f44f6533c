package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/evyataryagoni/geoconsole/internal/export"
	"github.com/evyataryagoni/geoconsole/internal/geo"
	"github.com/evyataryagoni/geoconsole/internal/logger"
	"github.com/evyataryagoni/geoconsole/internal/metrics"
	"github.com/evyataryagoni/geoconsole/internal/models"
	"github.com/evyataryagoni/geoconsole/internal/store"
	"github.com/evyataryagoni/geoconsole/internal/upstream"
	"github.com/go-playground/validator/v10"
)

// Bounds of the bulk test-data helpers
const (
	MinInsert       = 10000
	MaxInsert       = 100000
	MaxRandomInsert = 99999 // upper bound of the count picked when none is given
)

// InsertResult reports a random data generation
type InsertResult struct {
	Num     int    `json:"num"`
	Message string `json:"message"`
}

// DeleteRandomResult reports a random deletion and the refreshed session
type DeleteRandomResult struct {
	DeletedCount int    `json:"deleted_count"`
	Message      string `json:"message,omitempty"`

	// Session is the session after re-running its last query, nil when the
	// session had no query to re-run or the re-run failed
	Session *models.Session `json:"-"`

	// RefreshError is set when the re-run of the last query failed
	RefreshError error `json:"-"`
}

// ConsoleService handles the console actions
// This is the service layer - it sits between handlers and the geo service / session store
//
// Responsibilities:
//   - Parse and validate user input
//   - Call the geo service
//   - Keep each visitor's session (record list + page) consistent
//   - Log and count every action
type ConsoleService struct {
	geo       upstream.GeoService
	store     store.Store
	validator *validator.Validate
	locks     *keyedMutex
	metrics   *metrics.Metrics
	logger    *logger.Logger
	randIntN  func(n int) int
}

// NewConsoleService creates a new console service
//
// Parameters:
//   - geoService: client of the remote geo-query service
//   - sessions: any implementation of the Store interface
//   - m: metrics collector (optional, can be nil)
//   - log: logger (optional, can be nil)
//
// Returns:
//   - *ConsoleService: pointer to the created service
func NewConsoleService(geoService upstream.GeoService, sessions store.Store, m *metrics.Metrics, log *logger.Logger) *ConsoleService {
	if log == nil {
		log = logger.NewDefault()
	}
	return &ConsoleService{
		geo:       geoService,
		store:     sessions,
		validator: validator.New(),
		locks:     newKeyedMutex(),
		metrics:   m,
		logger:    log.WithComponent("ConsoleService"),
		randIntN:  rand.IntN,
	}
}

// Session returns the stored session, or a fresh empty one
func (s *ConsoleService) Session(ctx context.Context, id string) (*models.Session, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	return s.load(ctx, id)
}

// Query parses the raw coordinate input, runs the polygon query and replaces
// the session's record list with the result
//
// Flow:
//  1. Parse (malformed tokens are dropped) and validate (at least 3 points)
//  2. Query the geo service
//  3. Replace the record list wholesale and go back to page 1
//  4. Save the session
func (s *ConsoleService) Query(ctx context.Context, id, raw string) (*models.Session, error) {
	coords, dropped := geo.ParseReport(raw)
	if len(dropped) > 0 {
		s.logger.Debug().Str("session_id", id).Int("dropped", len(dropped)).Str("first", dropped[0].Token).Msg("Dropped malformed coordinate tokens")
		if s.metrics != nil {
			s.metrics.DroppedTokens.Add(float64(len(dropped)))
		}
	}

	if err := geo.Validate(coords); err != nil {
		s.record("query", "validation")
		return nil, validationError(err)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := s.load(ctx, id)
	if err != nil {
		s.record("query", "store_error")
		return nil, err
	}

	if err := s.runQuery(ctx, sess, coords); err != nil {
		s.record("query", "upstream_error")
		return nil, err
	}
	sess.LastQuery = strings.TrimSpace(raw)

	if err := s.save(ctx, sess); err != nil {
		s.record("query", "store_error")
		return nil, err
	}

	s.logger.Info().
		Str("session_id", id).
		Int("points", len(coords)).
		Int("results", len(sess.Records)).
		Float64("query_time", sess.QueryTime).
		Msg("Query successful")
	s.record("query", "success")
	return sess, nil
}

// DeleteRecord deletes one record on the geo service and trims it from the
// session, clamping the current page if it no longer exists.
// A record the geo service no longer knows is trimmed as well.
func (s *ConsoleService) DeleteRecord(ctx context.Context, id, recordID string) (*models.Session, error) {
	if err := s.validator.Var(recordID, "required"); err != nil {
		s.record("delete", "validation")
		return nil, validationError(errors.New("record id is required"))
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := s.load(ctx, id)
	if err != nil {
		s.record("delete", "store_error")
		return nil, err
	}

	if err := s.geo.Delete(ctx, recordID); err != nil {
		if !upstream.IsNotFound(err) {
			s.record("delete", "upstream_error")
			return nil, err
		}
		// Already gone upstream: drop the stale row
		s.logger.Warn().Err(err).Str("session_id", id).Str("record_id", recordID).Msg("Record not found on geo service, removing locally")
	}

	if !sess.RemoveRecord(recordID) {
		s.logger.Debug().Str("session_id", id).Str("record_id", recordID).Msg("Deleted record was not in the session list")
	}

	if err := s.save(ctx, sess); err != nil {
		s.record("delete", "store_error")
		return nil, err
	}

	s.logger.Info().Str("session_id", id).Str("record_id", recordID).Int("remaining", len(sess.Records)).Msg("Record deleted")
	s.record("delete", "success")
	return sess, nil
}

// GoToPage selects a page of the session's record list
func (s *ConsoleService) GoToPage(ctx context.Context, id string, page int) (*models.Session, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sess.Page.GoTo(page); err != nil {
		s.record("page", "validation")
		return nil, validationError(err)
	}

	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	s.record("page", "success")
	return sess, nil
}

// GenerateRandom asks the geo service to insert num random records
// num == 0 picks a count in [MinInsert, MaxRandomInsert]; any other value must
// lie within [MinInsert, MaxInsert].
func (s *ConsoleService) GenerateRandom(ctx context.Context, num int) (*InsertResult, error) {
	if num == 0 {
		num = MinInsert + s.randIntN(MaxRandomInsert-MinInsert+1)
	}
	if err := s.validator.Var(num, fmt.Sprintf("min=%d,max=%d", MinInsert, MaxInsert)); err != nil {
		s.record("insert", "validation")
		return nil, fmt.Errorf("%w: num must be within [%d, %d], got %d", ErrInvalidCount, MinInsert, MaxInsert, num)
	}

	resp, err := s.geo.Insert(ctx, num)
	if err != nil {
		s.record("insert", "upstream_error")
		return nil, err
	}

	s.logger.Info().Int("num", num).Msg("Random data generated")
	s.record("insert", "success")
	return &InsertResult{Num: num, Message: resp.Message}, nil
}

// DeleteRandom asks the geo service to delete num random records, then
// re-runs the session's last query so the list reflects the deletion
//
// A failed re-run does not fail the deletion; it is reported in
// DeleteRandomResult.RefreshError.
func (s *ConsoleService) DeleteRandom(ctx context.Context, id string, num int) (*DeleteRandomResult, error) {
	if err := s.validator.Var(num, "min=1"); err != nil {
		s.record("delete_random", "validation")
		return nil, fmt.Errorf("%w: num must be at least 1, got %d", ErrInvalidCount, num)
	}

	resp, err := s.geo.DeleteRandom(ctx, num)
	if err != nil {
		s.record("delete_random", "upstream_error")
		return nil, err
	}

	result := &DeleteRandomResult{DeletedCount: resp.DeletedCount, Message: resp.Message}
	s.logger.Info().Int("num", num).Int("deleted", resp.DeletedCount).Msg("Random data deleted")
	s.record("delete_random", "success")

	if id == "" {
		return result, nil
	}

	sess, err := s.refresh(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", id).Msg("Failed to refresh session after random delete")
		result.RefreshError = err
		return result, nil
	}
	result.Session = sess
	return result, nil
}

// Count returns the total number of records held by the geo service
func (s *ConsoleService) Count(ctx context.Context) (*models.CountResponse, error) {
	resp, err := s.geo.Count(ctx)
	if err != nil {
		s.record("count", "upstream_error")
		return nil, err
	}
	s.record("count", "success")
	return resp, nil
}

// Export writes the session's current record list as CSV
// Returns ErrNothingToExport before the first successful query
func (s *ConsoleService) Export(ctx context.Context, id string, w io.Writer) error {
	unlock := s.locks.Lock(id)
	sess, err := s.load(ctx, id)
	unlock()
	if err != nil {
		return err
	}

	if !sess.Queried {
		s.record("export", "validation")
		return ErrNothingToExport
	}

	if err := export.WriteCSV(w, sess.Records); err != nil {
		s.record("export", "error")
		return err
	}

	s.logger.Info().Str("session_id", id).Int("records", len(sess.Records)).Msg("Records exported")
	s.record("export", "success")
	return nil
}

// refresh re-runs the last query of a session, if it has one
func (s *ConsoleService) refresh(ctx context.Context, id string) (*models.Session, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.Queried || sess.LastQuery == "" {
		return nil, nil
	}

	coords := geo.Parse(sess.LastQuery)
	if err := s.runQuery(ctx, sess, coords); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// runQuery calls the geo service and installs the result in sess
func (s *ConsoleService) runQuery(ctx context.Context, sess *models.Session, coords []geo.Coordinate) error {
	resp, err := s.geo.Query(ctx, coords)
	if err != nil {
		return err
	}

	sess.ReplaceRecords(resp.Data, resp.Statistics)
	sess.QueryTime = resp.QueryTime

	if s.metrics != nil {
		for _, rec := range resp.Data {
			s.metrics.QueryResultsTotal.WithLabelValues(rec.Type).Inc()
		}
	}
	return nil
}

// load fetches a session, creating an empty one when none is stored
func (s *ConsoleService) load(ctx context.Context, id string) (*models.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			s.storeOp("get", "miss")
			return models.NewSession(id), nil
		}
		s.storeOp("get", "error")
		s.logger.Error().Err(err).Str("session_id", id).Msg("Failed to load session")
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	s.storeOp("get", "hit")
	return sess, nil
}

func (s *ConsoleService) save(ctx context.Context, sess *models.Session) error {
	if err := s.store.Save(ctx, sess); err != nil {
		s.storeOp("save", "error")
		s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("Failed to save session")
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.storeOp("save", "success")
	return nil
}

func (s *ConsoleService) record(action, result string) {
	if s.metrics != nil {
		s.metrics.ActionsTotal.WithLabelValues(action, result).Inc()
	}
}

func (s *ConsoleService) storeOp(op, result string) {
	if s.metrics != nil {
		s.metrics.SessionStoreOpsTotal.WithLabelValues(op, result).Inc()
	}
}

// Close cleans up resources
// This will close the underlying session store
func (s *ConsoleService) Close() error {
	return s.store.Close()
}

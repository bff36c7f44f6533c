package upstream

import (
	"context"
	"sync"

	"github.com/evyataryagoni/geoconsole/internal/geo"
	"github.com/evyataryagoni/geoconsole/internal/models"
)

// MockClient is a test double for the GeoService interface
// It allows tests to control answers and verify interactions
type MockClient struct {
	mu sync.Mutex

	// Canned answers
	QueryResult        *models.QueryResponse
	InsertResult       *models.InsertResponse
	DeleteRandomResult *models.DeleteRandomResponse
	CountResult        *models.CountResponse

	// Errors to return, per operation
	QueryError        error
	DeleteError       error
	InsertError       error
	DeleteRandomError error
	CountError        error

	// Track method calls for verification in tests
	QueryCalls        [][]geo.Coordinate
	DeleteCalls       []string
	InsertCalls       []int
	DeleteRandomCalls []int
	CountCalls        int
}

// NewMockClient creates a mock that answers every call successfully
// Query returns the given records with statistics counted from their types.
func NewMockClient(records ...models.GeoRecord) *MockClient {
	stats := models.Statistics{}
	for _, rec := range records {
		switch rec.Type {
		case models.TypePoint:
			stats.PointCount++
		case models.TypeLine:
			stats.LineCount++
		case models.TypePolygon:
			stats.PolygonCount++
		}
	}
	if records == nil {
		records = []models.GeoRecord{}
	}

	return &MockClient{
		QueryResult:        &models.QueryResponse{Status: "success", Data: records, Statistics: stats},
		InsertResult:       &models.InsertResponse{Status: "success", Message: "数据插入成功"},
		DeleteRandomResult: &models.DeleteRandomResponse{Status: "success"},
		CountResult:        &models.CountResponse{Status: "success", TotalEntries: 100000},
	}
}

// Query implements GeoService
// A copy of the canned record list is returned so callers may mutate it.
func (m *MockClient) Query(ctx context.Context, coords []geo.Coordinate) (*models.QueryResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryCalls = append(m.QueryCalls, coords)
	if m.QueryError != nil {
		return nil, m.QueryError
	}

	resp := *m.QueryResult
	resp.Data = append([]models.GeoRecord{}, m.QueryResult.Data...)
	return &resp, nil
}

// Delete implements GeoService
func (m *MockClient) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, id)
	return m.DeleteError
}

// Insert implements GeoService
func (m *MockClient) Insert(ctx context.Context, num int) (*models.InsertResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InsertCalls = append(m.InsertCalls, num)
	if m.InsertError != nil {
		return nil, m.InsertError
	}
	return m.InsertResult, nil
}

// DeleteRandom implements GeoService
// DeletedCount echoes num unless DeleteRandomResult sets it explicitly.
func (m *MockClient) DeleteRandom(ctx context.Context, num int) (*models.DeleteRandomResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteRandomCalls = append(m.DeleteRandomCalls, num)
	if m.DeleteRandomError != nil {
		return nil, m.DeleteRandomError
	}

	resp := *m.DeleteRandomResult
	if resp.DeletedCount == 0 {
		resp.DeletedCount = num
	}
	return &resp, nil
}

// Count implements GeoService
func (m *MockClient) Count(ctx context.Context) (*models.CountResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CountCalls++
	if m.CountError != nil {
		return nil, m.CountError
	}
	return m.CountResult, nil
}

package models

import (
	"time"

	"github.com/evyataryagoni/geoconsole/internal/geo"
	"github.com/evyataryagoni/geoconsole/internal/pagination"
)

// Geometry type tags used by the geo service
// They are a convention only, records with other tags are still displayed
const (
	TypePoint   = "Point"
	TypeLine    = "Line"
	TypePolygon = "Polygon"
)

// GeoRecord is one geospatial entity returned by the query endpoint
// Coordinates is a bounding box or a point, in one of several shapes
type GeoRecord struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Coordinates geo.Coordinates `json:"coordinates" swaggertype:"string" example:"[(1.5, 2.5), (3.5, 4.5)]"`
}

// Statistics counts query results per geometry type
type Statistics struct {
	PointCount   int `json:"point_count"`
	LineCount    int `json:"line_count"`
	PolygonCount int `json:"polygon_count"`
}

// Total returns the sum of all counters
func (s Statistics) Total() int {
	return s.PointCount + s.LineCount + s.PolygonCount
}

// QueryRequest is the body of POST /query on the geo service
type QueryRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

// QueryResponse is the body returned by POST /query
type QueryResponse struct {
	Status     string      `json:"status"`
	Message    string      `json:"message,omitempty"`
	Data       []GeoRecord `json:"data"`
	Statistics Statistics  `json:"statistics"`
	QueryTime  float64     `json:"query_time"` // seconds spent in the R-tree search
}

// InsertRequest is the body of POST /insert
type InsertRequest struct {
	Num int `json:"num"`
}

// InsertResponse is the body returned by POST /insert
type InsertResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DeleteRandomRequest is the body of POST /delete-random
type DeleteRandomRequest struct {
	Num int `json:"num"`
}

// DeleteRandomResponse is the body returned by POST /delete-random
type DeleteRandomResponse struct {
	Status       string `json:"status"`
	DeletedCount int    `json:"deleted_count"`
	Message      string `json:"message,omitempty"`
}

// CountResponse is the body returned by GET /count
type CountResponse struct {
	Status       string `json:"status"`
	TotalEntries uint64 `json:"totalEntries"`
	Timestamp    int64  `json:"timestamp"`
}

// ConsoleQueryRequest is the body of POST /v1/query on the console API
// Coordinates uses the same "lng,lat lng,lat ..." format as the query form
type ConsoleQueryRequest struct {
	Coordinates string `json:"coordinates" validate:"required" example:"75.692101,8.418863 -142.224468,70.396431 10.5,20.5"`
}

// Session is the complete UI state of one console visitor
//
// The record list is replaced wholesale on every successful query and
// trimmed in place on every successful per-record delete.
type Session struct {
	ID         string           `json:"id"`
	Records    []GeoRecord      `json:"records"`
	Statistics Statistics       `json:"statistics"`
	Page       pagination.State `json:"page"`
	LastQuery  string           `json:"last_query"` // raw input of the last successful query
	QueryTime  float64          `json:"query_time"` // as reported by the geo service
	Queried    bool             `json:"queried"`    // true once any query succeeded
	UpdatedAt  time.Time        `json:"updated_at"`
}

// NewSession creates an empty session with the default page size
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Records:   []GeoRecord{},
		Page:      pagination.NewState(pagination.ItemsPerPage),
		UpdatedAt: time.Now(),
	}
}

// RemoveRecord trims the record with the given id and re-clamps the page
// Returns false when no such record is held
func (s *Session) RemoveRecord(id string) bool {
	for i, rec := range s.Records {
		if rec.ID == id {
			s.Records = append(s.Records[:i], s.Records[i+1:]...)
			s.Page.SetTotal(len(s.Records))
			return true
		}
	}
	return false
}

// ReplaceRecords installs the result of a new query and goes back to page 1
func (s *Session) ReplaceRecords(records []GeoRecord, stats Statistics) {
	if records == nil {
		records = []GeoRecord{}
	}
	s.Records = records
	s.Statistics = stats
	s.Queried = true
	s.Page.Reset(len(records))
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error string `json:"error"` // Error message
}

// MessageResponse is returned by actions that only report an outcome
type MessageResponse struct {
	Message string `json:"message"`
}

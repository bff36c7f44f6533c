package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/evyataryagoni/geoconsole/internal/geo"
	"github.com/evyataryagoni/geoconsole/internal/logger"
	"github.com/evyataryagoni/geoconsole/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// newTestClient starts a fake geo service and returns a client pointed at it
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *metrics.Metrics) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	m := metrics.New(prometheus.NewRegistry())
	return NewClient(server.URL+"/", 2*time.Second, m, logger.Nop()), m
}

// TestClient_Query_Success tests the query round trip
func TestClient_Query_Success(t *testing.T) {
	var received map[string][][2]float64

	client, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/query" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %s", ct)
		}
		json.NewDecoder(r.Body).Decode(&received)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "success",
			"statistics": {"point_count": 1, "line_count": 1, "polygon_count": 0},
			"data": [
				{"id": "1", "type": "Point", "coordinates": "[(1, 2), (1, 2)]"},
				{"id": "2", "type": "Line", "coordinates": [[0, 0], [5, 5]]}
			],
			"query_time": 0.5
		}`))
	})

	resp, err := client.Query(context.Background(), geo.Parse("1,2 3,4 5,6"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(received["coordinates"]) != 3 || received["coordinates"][2] != [2]float64{5, 6} {
		t.Errorf("unexpected request body: %v", received)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 records, got %d", len(resp.Data))
	}
	if resp.Data[1].Coordinates.Kind != geo.KindPairs {
		t.Errorf("expected pairs, got %s", resp.Data[1].Coordinates.Kind)
	}
	if resp.Statistics.LineCount != 1 {
		t.Errorf("expected 1 line, got %d", resp.Statistics.LineCount)
	}
	if got := testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("query", "200")); got != 1 {
		t.Errorf("expected 1 recorded query, got %f", got)
	}
}

// TestClient_Query_EmptyData tests that a missing data array becomes empty
func TestClient_Query_EmptyData(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","statistics":{}}`))
	})

	resp, err := client.Query(context.Background(), geo.Parse("1,2 3,4 5,6"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data == nil || len(resp.Data) != 0 {
		t.Errorf("expected empty non-nil data, got %v", resp.Data)
	}
}

// TestClient_ErrorStatus tests conversion of non-2xx answers into NetworkError
func TestClient_ErrorStatus(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		expectedMessage string
	}{
		{"json message", http.StatusBadRequest, `{"status":"error","message":"插入数量必须在 10000-100000 之间"}`, "插入数量必须在 10000-100000 之间"},
		{"json error", http.StatusInternalServerError, `{"status":"error","error":"删除数据失败"}`, "删除数据失败"},
		{"plain text", http.StatusNotFound, "数据不存在", "数据不存在"},
		{"empty body", http.StatusBadGateway, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Insert(context.Background(), 5)

			var netErr *NetworkError
			if !errors.As(err, &netErr) {
				t.Fatalf("expected *NetworkError, got %T (%v)", err, err)
			}
			if netErr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, netErr.StatusCode)
			}
			if netErr.Message != tt.expectedMessage {
				t.Errorf("expected message %q, got %q", tt.expectedMessage, netErr.Message)
			}
			if netErr.Op != "insert" {
				t.Errorf("expected op insert, got %s", netErr.Op)
			}
		})
	}
}

// TestClient_Delete tests path escaping and plain-text success bodies
func TestClient_Delete(t *testing.T) {
	var path string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		path = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/plain")
		w.Write([]byte("删除成功"))
	})

	if err := client.Delete(context.Background(), "42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/delete/42" {
		t.Errorf("expected /delete/42, got %s", path)
	}

	if err := client.Delete(context.Background(), "a/b c"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/delete/a%2Fb%20c" {
		t.Errorf("expected escaped id, got %s", path)
	}
}

// TestClient_Delete_NotFound tests IsNotFound
func TestClient_Delete_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("数据不存在"))
	})

	err := client.Delete(context.Background(), "7")
	if !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

// TestClient_InsertDeleteRandomCount tests the helper endpoints
func TestClient_InsertDeleteRandomCount(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]int
		switch r.URL.Path {
		case "/insert":
			json.NewDecoder(r.Body).Decode(&body)
			if body["num"] != 12345 {
				t.Errorf("expected num 12345, got %d", body["num"])
			}
			w.Write([]byte(`{"status":"success","message":"数据插入成功"}`))
		case "/delete-random":
			json.NewDecoder(r.Body).Decode(&body)
			w.Write([]byte(`{"status":"success","deleted_count":` + "3" + `,"message":"ok"}`))
		case "/count":
			if r.Method != http.MethodGet {
				t.Errorf("expected GET, got %s", r.Method)
			}
			w.Write([]byte(`{"status":"success","totalEntries":100000,"timestamp":1}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	ctx := context.Background()

	insert, err := client.Insert(ctx, 12345)
	if err != nil || insert.Message != "数据插入成功" {
		t.Errorf("unexpected insert result: %+v, %v", insert, err)
	}

	deleted, err := client.DeleteRandom(ctx, 3)
	if err != nil || deleted.DeletedCount != 3 {
		t.Errorf("unexpected delete-random result: %+v, %v", deleted, err)
	}

	count, err := client.Count(ctx)
	if err != nil || count.TotalEntries != 100000 {
		t.Errorf("unexpected count result: %+v, %v", count, err)
	}
}

// TestClient_TransportFailure tests errors without a response
func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, time.Second, nil, logger.Nop())
	_, err := client.Count(context.Background())

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError, got %T", err)
	}
	if netErr.StatusCode != 0 || netErr.Err == nil {
		t.Errorf("expected transport error without status, got %+v", netErr)
	}
}

// TestClient_ContextCancelled tests that the request context is honoured
func TestClient_ContextCancelled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Count(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}

// TestClient_InvalidJSON tests decode failures
func TestClient_InvalidJSON(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.Count(context.Background())

	var netErr *NetworkError
	if !errors.As(err, &netErr) || netErr.Err == nil {
		t.Errorf("expected decode error, got %v", err)
	}
}

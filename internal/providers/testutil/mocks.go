package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/AI-Template-SDK/senso-visibility/internal/providers/common"
)

// MockBrightDataServer creates a mock HTTP server for the BrightData snapshot API
type MockBrightDataServer struct {
	Server     *httptest.Server
	SnapshotID string

	mu            sync.Mutex
	status        string
	results       []byte
	buildingPolls int
	requests      int
	authHeaders   []string
}

// NewMockBrightDataServer creates a new mock BrightData server
func NewMockBrightDataServer() *MockBrightDataServer {
	mock := &MockBrightDataServer{
		SnapshotID: "test-snapshot-123",
		status:     "ready",
	}

	mux := http.NewServeMux()

	// GET /progress/:snapshot_id - Check progress
	mux.HandleFunc("/progress/", func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		response := common.ProgressResponse{
			Status:     mock.status,
			SnapshotID: mock.SnapshotID,
		}
		mock.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	})

	// GET /snapshot/:snapshot_id - Get results, answering "building" first if configured
	mux.HandleFunc("/snapshot/", func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		defer mock.mu.Unlock()
		mock.requests++
		mock.authHeaders = append(mock.authHeaders, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		if mock.buildingPolls > 0 {
			mock.buildingPolls--
			w.WriteHeader(http.StatusAccepted)
			w.Write([]byte(SampleStatusResponse()))
			return
		}
		if mock.results != nil {
			w.Write(mock.results)
		} else {
			w.Write([]byte("[]"))
		}
	})

	mock.Server = httptest.NewServer(mux)
	return mock
}

// URL returns the base URL to hand to common.NewBrightDataClient
func (m *MockBrightDataServer) URL() string {
	return m.Server.URL
}

// Close closes the mock server
func (m *MockBrightDataServer) Close() {
	m.Server.Close()
}

// SetStatus sets the mock job status
func (m *MockBrightDataServer) SetStatus(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

// SetResults sets the mock results response
func (m *MockBrightDataServer) SetResults(results []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = results
}

// SetBuildingPolls makes the next n snapshot requests answer "building"
func (m *MockBrightDataServer) SetBuildingPolls(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buildingPolls = n
}

// Requests returns how many snapshot requests were served
func (m *MockBrightDataServer) Requests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests
}

// AuthHeaders returns the Authorization headers seen on snapshot requests
func (m *MockBrightDataServer) AuthHeaders() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.authHeaders))
	copy(out, m.authHeaders)
	return out
}

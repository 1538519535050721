//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"mime/multipart"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gobuild-crm/vishnu/internal/api/handlers"
	"github.com/gobuild-crm/vishnu/internal/extract"
	"github.com/gobuild-crm/vishnu/internal/knowledge"
	"github.com/gobuild-crm/vishnu/internal/openai"
	"github.com/gobuild-crm/vishnu/internal/server"
	"github.com/gobuild-crm/vishnu/internal/service"
	"github.com/gobuild-crm/vishnu/internal/testutil"
	"github.com/gobuild-crm/vishnu/internal/vectorstore"
	"github.com/jackc/pgx/v5/pgxpool"
)

// E2ETestEnv holds all resources needed for E2E tests. Embedding and
// generation run against deterministic local fakes; everything between
// the HTTP surface and the Postgres index is real.
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	HTTPClient   *http.Client
}

// SetupE2EEnv creates a full E2E test environment with a container and server
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	serverURL, serverCloser := startServer(t, pool, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// APIResponse holds a successful response body. Success payloads are
// flat, so Data is the entire body.
type APIResponse struct {
	Data json.RawMessage
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path string) (*APIResponse, error) {
	return e.doRequest("GET", path, nil, "")
}

// PostJSON performs a POST request with a JSON body
func (e *E2ETestEnv) PostJSON(path string, body interface{}) (*APIResponse, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal body: %w", err)
	}
	return e.doRequest("POST", path, bytes.NewReader(jsonData), "application/json")
}

// Delete performs a DELETE request
func (e *E2ETestEnv) Delete(path string) (*APIResponse, error) {
	return e.doRequest("DELETE", path, nil, "")
}

// UploadDocument performs a multipart upload of a document
func (e *E2ETestEnv) UploadDocument(fileName, content string) (*APIResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(part, content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	return e.doRequest("POST", "/vishnu/upload", &buf, writer.FormDataContentType())
}

func (e *E2ETestEnv) doRequest(method, path string, body io.Reader, contentType string) (*APIResponse, error) {
	req, err := http.NewRequest(method, e.ServerURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, errResp.Error)
		}
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	return &APIResponse{Data: respBody}, nil
}

// hashEmbedder produces deterministic unit vectors so nearest-neighbor
// search behaves consistently without a live embedding provider.
type hashEmbedder struct{}

func (hashEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, openai.DefaultEmbeddingDimensions)
	var norm float64
	for i := range vec {
		h := fnv.New64a()
		var idx [8]byte
		binary.BigEndian.PutUint64(idx[:], uint64(i))
		h.Write(idx[:])
		io.WriteString(h, text)
		v := float32(int64(h.Sum64()%2000)-1000) / 1000
		vec[i] = v
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

// echoGenerator returns a canned answer that embeds the retrieved context
// so tests can assert grounding without a live chat model.
type echoGenerator struct{}

func (echoGenerator) GenerateAnswer(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	return "ANSWER BASED ON:\n" + userMessage, nil
}

// startServer starts the HTTP server with the full pipeline wired
func startServer(t *testing.T, pool *pgxpool.Pool, port int) (string, func()) {
	store := vectorstore.New(pool, hashEmbedder{})
	bootstrapper := service.NewKnowledgeBootstrapper(store, knowledge.Corpus())
	ingestionSvc := service.NewIngestionService(extract.New(), store, service.DefaultChunkConfig())
	assistantSvc := service.NewAssistantService(store, bootstrapper, echoGenerator{})

	cfg := server.RouterConfig{
		AssistantHandler: handlers.NewAssistantHandler(assistantSvc),
		DocumentHandler:  handlers.NewDocumentHandler(ingestionSvc, nil),
		AdminHandler:     handlers.NewAdminHandler(store),
	}

	router := server.NewRouter(cfg)
	addr := fmt.Sprintf(":%d", port)

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func countRecords(e *E2ETestEnv, namespace string) int64 {
	var count int64
	err := e.Pool.QueryRow(e.Ctx,
		"SELECT count(*) FROM vector_records WHERE namespace = $1", namespace).Scan(&count)
	if err != nil {
		e.T.Fatalf("failed to count records: %v", err)
	}
	return count
}

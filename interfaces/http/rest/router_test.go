package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"atlas-backend/application/services"
	domainconfig "atlas-backend/domain/config"
	"atlas-backend/domain/core/validators"
	"atlas-backend/domain/energy"
	"atlas-backend/infrastructure/config"
	"atlas-backend/infrastructure/di"
	"atlas-backend/infrastructure/persistence/memory"
	"atlas-backend/infrastructure/sources"
	"atlas-backend/pkg/observability"
)

// envelope mirrors the JSON response wrapper for decoding in assertions
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerAddress: ":0",
		Environment:   "development",
		StorageDriver: config.StorageMemory,
		LogLevel:      "error",
		EnableMetrics: true,
		EnableCORS:    false,
	}
	logger := zap.NewNop()
	repo := memory.NewNodeRepository()
	domainCfg := domainconfig.DefaultDomainConfig()
	svc := services.NewNodeService(repo, validators.NewNodeValidator(domainCfg), logger)
	metrics := observability.NewMetrics()
	tuning := config.NewStaticTuning(energy.DefaultTuning())

	registry := sources.NewRegistry(
		sources.NewStaticSource("curated", 0.7, "curated preview", 10),
	)

	orchestrator := services.NewQueryOrchestrator(
		services.NewSubgraphNavigator(svc, logger),
		services.NewContextAssembler(logger),
		services.NewExternalSourceIntegrator(metrics, logger),
		registry,
		sources.NewDefaultSourcePolicy(),
		tuning,
		domainCfg,
		metrics,
		logger,
	)

	cache := di.NewInMemoryCache()
	commandBus, err := di.ProvideCommandBus(svc, cache, logger)
	require.NoError(t, err)
	queryBus, err := di.ProvideQueryBus(svc, orchestrator, cache, metrics, logger)
	require.NoError(t, err)

	container := &di.Container{
		Config:       cfg,
		Logger:       logger,
		NodeRepo:     repo,
		NodeService:  svc,
		Orchestrator: orchestrator,
		CommandBus:   commandBus,
		QueryBus:     queryBus,
		Cache:        cache,
		Metrics:      metrics,
		Tuning:       tuning,
	}

	server := httptest.NewServer(NewRouter(container).Setup())
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body interface{}) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func createNode(t *testing.T, base, nodeType, name, content, parentID string) string {
	t.Helper()

	payload := map[string]interface{}{
		"type":    nodeType,
		"name":    name,
		"content": content,
	}
	if parentID != "" {
		payload["parent_id"] = parentID
	}

	status, env := doJSON(t, http.MethodPost, base+"/api/v1/nodes", payload)
	require.Equal(t, http.StatusCreated, status)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func TestRouter_NodeLifecycleOverHTTP(t *testing.T) {
	server := newTestServer(t)
	base := server.URL

	// Create a small hierarchy
	rootID := createNode(t, base, "concept", "Root", "root content", "")
	childID := createNode(t, base, "concept", "Child", "child content", rootID)

	// Read the root back
	status, env := doJSON(t, http.MethodGet, base+"/api/v1/nodes/"+rootID, nil)
	require.Equal(t, http.StatusOK, status)
	var view struct {
		ID       string   `json:"id"`
		Content  string   `json:"content"`
		ParentID string   `json:"parent_id"`
		Children []string `json:"children"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, rootID, view.ID)
	assert.Equal(t, "root content", view.Content)
	assert.Equal(t, []string{childID}, view.Children)

	// Update, then read again: the fresh content must come back even
	// though the first read was cached
	status, _ = doJSON(t, http.MethodPut, base+"/api/v1/nodes/"+rootID,
		map[string]interface{}{"content": "revised content"})
	require.Equal(t, http.StatusOK, status)

	status, env = doJSON(t, http.MethodGet, base+"/api/v1/nodes/"+rootID, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, rootID, view.ID)
	assert.Equal(t, "revised content", view.Content)

	// Children listing
	status, env = doJSON(t, http.MethodGet, base+"/api/v1/nodes/"+rootID+"/children", nil)
	require.Equal(t, http.StatusOK, status)
	var children struct {
		Children []struct {
			ID string `json:"id"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &children))
	require.Len(t, children.Children, 1)
	assert.Equal(t, childID, children.Children[0].ID)

	// Cascading delete removes the subtree
	status, _ = doJSON(t, http.MethodDelete, base+"/api/v1/nodes/"+rootID, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, env = doJSON(t, http.MethodGet, base+"/api/v1/nodes/"+childID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
}

func TestRouter_GraphQueryOverHTTP(t *testing.T) {
	server := newTestServer(t)
	base := server.URL

	rootID := createNode(t, base, "concept", "Root", "root content", "")
	for i := 0; i < 3; i++ {
		createNode(t, base, "concept", fmt.Sprintf("Child%d", i), fmt.Sprintf("content %d", i), rootID)
	}

	status, env := doJSON(t, http.MethodPost, base+"/api/v1/query", map[string]interface{}{
		"seed_ids":      []string{rootID},
		"total_budget":  1000.0,
		"strategy":      "balanced",
		"context_depth": 1,
		"sources":       []string{"curated"},
	})
	require.Equal(t, http.StatusOK, status)

	var result struct {
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
		Relationships        []interface{} `json:"relationships"`
		ExternalIntegrations []struct {
			Source string `json:"source"`
		} `json:"external_integrations"`
		EnergyUsed       float64 `json:"energy_used"`
		EnergyEfficiency float64 `json:"energy_efficiency"`
		ConfidenceScore  float64 `json:"confidence_score"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))

	require.Len(t, result.Nodes, 4)
	assert.Equal(t, rootID, result.Nodes[0].ID)
	assert.Len(t, result.Relationships, 3)
	require.Len(t, result.ExternalIntegrations, 1)
	assert.Equal(t, "curated", result.ExternalIntegrations[0].Source)
	assert.Greater(t, result.EnergyUsed, 0.0)
	assert.Less(t, result.EnergyUsed, 1000.0)
	assert.GreaterOrEqual(t, result.EnergyEfficiency, 0.0)
	assert.LessOrEqual(t, result.EnergyEfficiency, 1.0)
}

func TestRouter_QueryValidationErrorsSurface(t *testing.T) {
	server := newTestServer(t)

	status, env := doJSON(t, http.MethodPost, server.URL+"/api/v1/query", map[string]interface{}{
		"seed_ids":     []string{},
		"total_budget": 100.0,
	})

	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
}

func TestRouter_HealthAndMetricsEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

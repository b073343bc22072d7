package services

import (
	"context"
	"testing"

	"atlas-backend/application/ports"
	"atlas-backend/domain/config"
	"atlas-backend/domain/core/aggregates"
	"atlas-backend/domain/energy"
	"atlas-backend/infrastructure/sources"
	pkgerrors "atlas-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticTuning struct {
	t energy.Tuning
}

func (s staticTuning) Current() energy.Tuning { return s.t }

func newTestOrchestrator(t *testing.T, srcs ...ports.ExternalSource) (*QueryOrchestrator, *NodeService) {
	t.Helper()
	logger := zap.NewNop()
	svc, _ := newTestNodeService()

	return NewQueryOrchestrator(
		NewSubgraphNavigator(svc, logger),
		NewContextAssembler(logger),
		NewExternalSourceIntegrator(nil, logger),
		sources.NewRegistry(srcs...),
		sources.NewDefaultSourcePolicy(),
		staticTuning{t: energy.DefaultTuning()},
		config.DefaultDomainConfig(),
		nil,
		logger,
	), svc
}

func TestQueryOrchestrator_Execute_FullPipeline(t *testing.T) {
	// Arrange
	ctx := context.Background()
	src := &stubSource{
		name:   "curated",
		result: &aggregates.SourceResult{ContentHash: "hash", EnergyCost: 30, RelevanceScore: 0.7},
	}
	orch, svc := newTestOrchestrator(t, src)
	root := mustCreate(t, svc, "concept", "Root", "root content", "")
	child := mustCreate(t, svc, "concept", "Child", "child content", root.ID().String())

	// Act
	result, err := orch.Execute(ctx, QueryRequest{
		SeedIDs:      []string{root.ID().String()},
		TotalBudget:  1000,
		Strategy:     energy.StrategyBalanced,
		ContextDepth: 1,
		Sources:      []string{"curated"},
	})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, result.RequestID)

	require.Len(t, result.Nodes, 2)
	assert.Equal(t, root.ID().String(), result.Nodes[0].ID)
	assert.Equal(t, child.ID().String(), result.Nodes[1].ID)
	require.Len(t, result.Relationships, 1)
	require.Len(t, result.ExternalIntegrations, 1)
	assert.Equal(t, "curated", result.ExternalIntegrations[0].SourceName)

	// Navigation 60+50, assembly 2x5, integration 30
	assert.InDelta(t, 150.0, result.EnergyUsed, 1e-9)
	assert.InDelta(t, 1.0, result.EnergyEfficiency, 1e-9)
	assert.InDelta(t, 0.5, result.ConfidenceScore, 1e-9)
}

func TestQueryOrchestrator_Execute_EmptySeeds(t *testing.T) {
	orch, _ := newTestOrchestrator(t)

	_, err := orch.Execute(context.Background(), QueryRequest{
		TotalBudget: 100,
		Strategy:    energy.StrategyBalanced,
	})

	assert.True(t, pkgerrors.IsValidation(err))
}

func TestQueryOrchestrator_Execute_NegativeBudget(t *testing.T) {
	orch, _ := newTestOrchestrator(t)

	_, err := orch.Execute(context.Background(), QueryRequest{
		SeedIDs:     []string{"some-id"},
		TotalBudget: -1,
		Strategy:    energy.StrategyBalanced,
	})

	assert.True(t, pkgerrors.IsValidation(err))
}

func TestQueryOrchestrator_Execute_UnknownStrategy(t *testing.T) {
	orch, _ := newTestOrchestrator(t)

	_, err := orch.Execute(context.Background(), QueryRequest{
		SeedIDs:     []string{"some-id"},
		TotalBudget: 100,
		Strategy:    "turbo",
	})

	assert.True(t, pkgerrors.IsValidation(err))
}

func TestQueryOrchestrator_Execute_DepthOutOfRange(t *testing.T) {
	orch, _ := newTestOrchestrator(t)

	_, err := orch.Execute(context.Background(), QueryRequest{
		SeedIDs:      []string{"some-id"},
		TotalBudget:  100,
		Strategy:     energy.StrategyBalanced,
		ContextDepth: 99,
	})
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = orch.Execute(context.Background(), QueryRequest{
		SeedIDs:      []string{"some-id"},
		TotalBudget:  100,
		Strategy:     energy.StrategyBalanced,
		ContextDepth: -1,
	})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestQueryOrchestrator_Execute_ZeroBudgetSucceedsWithEmptyResult(t *testing.T) {
	// Arrange
	ctx := context.Background()
	orch, svc := newTestOrchestrator(t)
	root := mustCreate(t, svc, "concept", "Root", "root content", "")

	// Act
	result, err := orch.Execute(ctx, QueryRequest{
		SeedIDs:     []string{root.ID().String()},
		TotalBudget: 0,
		Strategy:    energy.StrategyBalanced,
	})

	// Assert: exhaustion is a degraded result, never an error
	require.NoError(t, err)
	assert.Empty(t, result.Nodes)
	assert.Empty(t, result.ExternalIntegrations)
	assert.Equal(t, 0.0, result.EnergyUsed)
	assert.Equal(t, 0.0, result.EnergyEfficiency)
	assert.Equal(t, 0.0, result.ConfidenceScore)
}

func TestQueryOrchestrator_Execute_CancelledContext(t *testing.T) {
	// Arrange
	orch, svc := newTestOrchestrator(t)
	root := mustCreate(t, svc, "concept", "Root", "root content", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	result, err := orch.Execute(ctx, QueryRequest{
		SeedIDs:     []string{root.ID().String()},
		TotalBudget: 1000,
		Strategy:    energy.StrategyBalanced,
	})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, result.Nodes)
	assert.Equal(t, 0.0, result.EnergyUsed)
}

func TestQueryOrchestrator_Execute_IntentDrivenSourceSelection(t *testing.T) {
	// Arrange
	ctx := context.Background()
	broad := &stubSource{name: "broad", result: &aggregates.SourceResult{EnergyCost: 1, RelevanceScore: 0.5}}
	curated := &stubSource{name: "curated", result: &aggregates.SourceResult{EnergyCost: 1, RelevanceScore: 0.7}}
	expert := &stubSource{name: "expert", result: &aggregates.SourceResult{EnergyCost: 1, RelevanceScore: 0.9}}
	orch, svc := newTestOrchestrator(t, broad, curated, expert)
	root := mustCreate(t, svc, "concept", "Root", "root content", "")

	// Act: no explicit sources, so the intent policy picks them
	result, err := orch.Execute(ctx, QueryRequest{
		SeedIDs:     []string{root.ID().String()},
		TotalBudget: 1000,
		Strategy:    energy.StrategyBalanced,
		Intent:      "integration",
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, result.ExternalIntegrations, 2)
	assert.Equal(t, "broad", result.ExternalIntegrations[0].SourceName)
	assert.Equal(t, "curated", result.ExternalIntegrations[1].SourceName)
	assert.Empty(t, expert.budgets)
}

func TestQueryOrchestrator_Execute_UnknownSourceNamesIgnored(t *testing.T) {
	// Arrange
	ctx := context.Background()
	orch, svc := newTestOrchestrator(t)
	root := mustCreate(t, svc, "concept", "Root", "root content", "")

	// Act
	result, err := orch.Execute(ctx, QueryRequest{
		SeedIDs:     []string{root.ID().String()},
		TotalBudget: 1000,
		Strategy:    energy.StrategyBalanced,
		Sources:     []string{"retired-source"},
	})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, result.ExternalIntegrations)
	assert.NotEmpty(t, result.Nodes)
}

func TestQueryOrchestrator_Execute_MissingSeedsYieldEmptySuccess(t *testing.T) {
	// Arrange
	ctx := context.Background()
	orch, _ := newTestOrchestrator(t)

	// Act
	result, err := orch.Execute(ctx, QueryRequest{
		SeedIDs:     []string{"does-not-exist"},
		TotalBudget: 1000,
		Strategy:    energy.StrategyBalanced,
	})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, result.Nodes)
	assert.Equal(t, 0.0, result.EnergyUsed)
}

package services

import (
	"context"
	"fmt"
	"testing"

	"atlas-backend/domain/core/valueobjects"
	"atlas-backend/domain/energy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestNavigator(t *testing.T) (*SubgraphNavigator, *NodeService) {
	t.Helper()
	svc, _ := newTestNodeService()
	return NewSubgraphNavigator(svc, zap.NewNop()), svc
}

func TestSubgraphNavigator_Navigate_SingleSeed(t *testing.T) {
	// Arrange
	ctx := context.Background()
	nav, svc := newTestNavigator(t)
	seed := mustCreate(t, svc, "concept", "Seed", "content", "")
	ledger := energy.NewLedger(100)
	alloc := energy.NewAllocator(energy.DefaultTuning())

	// Act
	nodes, err := nav.Navigate(ctx, []string{seed.ID().String()}, ledger, 0, energy.StrategyBalanced, alloc)

	// Assert
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, seed.ID().String(), nodes[0].ID().String())
	assert.InDelta(t, 50.0, ledger.Used(), 1e-9)
}

func TestSubgraphNavigator_Navigate_UnaffordableSeedYieldsEmptyResult(t *testing.T) {
	// Arrange
	ctx := context.Background()
	nav, svc := newTestNavigator(t)
	seed := mustCreate(t, svc, "concept", "Seed", "content", "")
	ledger := energy.NewLedger(1)
	alloc := energy.NewAllocator(energy.DefaultTuning())

	// Act
	nodes, err := nav.Navigate(ctx, []string{seed.ID().String()}, ledger, 0, energy.StrategyBalanced, alloc)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, nodes)
	assert.Equal(t, 0.0, ledger.Used())
}

func TestSubgraphNavigator_Navigate_MissingSeedSkipped(t *testing.T) {
	// Arrange
	ctx := context.Background()
	nav, svc := newTestNavigator(t)
	seed := mustCreate(t, svc, "concept", "Seed", "content", "")
	ledger := energy.NewLedger(1000)
	alloc := energy.NewAllocator(energy.DefaultTuning())

	// Act
	nodes, err := nav.Navigate(ctx, []string{"gone", seed.ID().String()}, ledger, 0, energy.StrategyBalanced, alloc)

	// Assert
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, seed.ID().String(), nodes[0].ID().String())
}

func TestSubgraphNavigator_Navigate_DuplicateSeedVisitedOnce(t *testing.T) {
	// Arrange
	ctx := context.Background()
	nav, svc := newTestNavigator(t)
	seed := mustCreate(t, svc, "concept", "Seed", "content", "")
	id := seed.ID().String()
	ledger := energy.NewLedger(1000)
	alloc := energy.NewAllocator(energy.DefaultTuning())

	// Act
	nodes, err := nav.Navigate(ctx, []string{id, id}, ledger, 0, energy.StrategyBalanced, alloc)

	// Assert
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
	assert.InDelta(t, 50.0, ledger.Used(), 1e-9)
}

func TestSubgraphNavigator_Navigate_FanOutLimitsChildren(t *testing.T) {
	// Arrange
	ctx := context.Background()
	nav, svc := newTestNavigator(t)
	parent := mustCreate(t, svc, "concept", "Parent", "root", "")
	for i := 0; i < 7; i++ {
		mustCreate(t, svc, "concept", fmt.Sprintf("Child%d", i), fmt.Sprintf("content %d", i), parent.ID().String())
	}
	ledger := energy.NewLedger(10000)
	alloc := energy.NewAllocator(energy.DefaultTuning())

	// Act
	nodes, err := nav.Navigate(ctx, []string{parent.ID().String()}, ledger, 1, energy.StrategyBalanced, alloc)

	// Assert
	require.NoError(t, err)
	assert.Len(t, nodes, 6)
}

func TestSubgraphNavigator_Navigate_ZeroDepthStopsAtSeeds(t *testing.T) {
	// Arrange
	ctx := context.Background()
	nav, svc := newTestNavigator(t)
	parent := mustCreate(t, svc, "concept", "Parent", "root", "")
	mustCreate(t, svc, "concept", "Child", "content", parent.ID().String())
	ledger := energy.NewLedger(10000)
	alloc := energy.NewAllocator(energy.DefaultTuning())

	// Act
	nodes, err := nav.Navigate(ctx, []string{parent.ID().String()}, ledger, 0, energy.StrategyBalanced, alloc)

	// Assert
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
}

func TestSubgraphNavigator_Navigate_BudgetCutsBranchShort(t *testing.T) {
	// Arrange
	ctx := context.Background()
	nav, svc := newTestNavigator(t)
	parent := mustCreate(t, svc, "concept", "Parent", "root", "")
	mustCreate(t, svc, "concept", "ChildA", "a", parent.ID().String())
	mustCreate(t, svc, "concept", "ChildB", "b", parent.ID().String())

	// Parent at depth 1 costs 60, each child at depth 0 costs 50; a
	// budget of 115 admits the parent and one child only.
	ledger := energy.NewLedger(115)
	alloc := energy.NewAllocator(energy.DefaultTuning())

	// Act
	nodes, err := nav.Navigate(ctx, []string{parent.ID().String()}, ledger, 1, energy.StrategyBalanced, alloc)

	// Assert
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
	assert.InDelta(t, 110.0, ledger.Used(), 1e-9)
}

func TestSubgraphNavigator_Navigate_DeclaredCostCharged(t *testing.T) {
	// Arrange
	ctx := context.Background()
	nav, svc := newTestNavigator(t)
	node, err := svc.Create(ctx, CreateNodeInput{
		Type:    "concept",
		Name:    "Costly",
		Content: "expensive to transform",
		Metadata: valueobjects.Metadata{
			"transformation_cost": valueobjects.NumberValue(200),
		},
	})
	require.NoError(t, err)
	ledger := energy.NewLedger(1000)
	alloc := energy.NewAllocator(energy.DefaultTuning())

	// Act
	nodes, err := nav.Navigate(ctx, []string{node.ID().String()}, ledger, 0, energy.StrategyBalanced, alloc)

	// Assert
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
	assert.InDelta(t, 200.0, ledger.Used(), 1e-9)
}

func TestSubgraphNavigator_Navigate_MinimalStrategyHalvesCost(t *testing.T) {
	// Arrange
	ctx := context.Background()
	nav, svc := newTestNavigator(t)
	seed := mustCreate(t, svc, "concept", "Seed", "content", "")
	ledger := energy.NewLedger(1000)
	alloc := energy.NewAllocator(energy.DefaultTuning())

	// Act
	_, err := nav.Navigate(ctx, []string{seed.ID().String()}, ledger, 0, energy.StrategyMinimal, alloc)

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 25.0, ledger.Used(), 1e-9)
}

func TestSubgraphNavigator_Navigate_CancelledContextStopsWalk(t *testing.T) {
	// Arrange
	nav, svc := newTestNavigator(t)
	seed := mustCreate(t, svc, "concept", "Seed", "content", "")
	ledger := energy.NewLedger(1000)
	alloc := energy.NewAllocator(energy.DefaultTuning())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	nodes, err := nav.Navigate(ctx, []string{seed.ID().String()}, ledger, 0, energy.StrategyBalanced, alloc)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

package memory

import (
	"context"
	"testing"

	"atlas-backend/domain/core/entities"
	appErrors "atlas-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNode(t *testing.T, name string) *entities.Node {
	t.Helper()
	node, err := entities.NewNode("concept", name, "content of "+name, nil)
	require.NoError(t, err)
	return node
}

func TestNodeRepository_SaveAndFindByID(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := NewNodeRepository()
	node := newNode(t, "Alpha")

	// Act
	require.NoError(t, repo.Save(ctx, node))
	found, err := repo.FindByID(ctx, node.ID().String())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, node.ID().String(), found.ID().String())
	assert.Equal(t, "Alpha", found.Name())
	assert.Equal(t, 1, repo.Len())
}

func TestNodeRepository_FindByID_NotFound(t *testing.T) {
	repo := NewNodeRepository()

	_, err := repo.FindByID(context.Background(), "missing")

	assert.True(t, appErrors.IsNotFound(err))
}

func TestNodeRepository_ReturnedNodesAreIsolatedCopies(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := NewNodeRepository()
	node := newNode(t, "Alpha")
	require.NoError(t, repo.Save(ctx, node))

	// Act: mutate both the saved pointer and a fetched copy
	node.AddChild("outside-mutation")
	fetched, err := repo.FindByID(ctx, node.ID().String())
	require.NoError(t, err)
	fetched.AddChild("another-mutation")

	// Assert: stored state is unaffected by either
	fresh, err := repo.FindByID(ctx, node.ID().String())
	require.NoError(t, err)
	assert.Empty(t, fresh.ChildIDs())
}

func TestNodeRepository_Save_ReplacesExistingRecord(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := NewNodeRepository()
	node := newNode(t, "Alpha")
	require.NoError(t, repo.Save(ctx, node))

	// Act
	node.UpdateContent("revised")
	require.NoError(t, repo.Save(ctx, node))

	// Assert
	found, err := repo.FindByID(ctx, node.ID().String())
	require.NoError(t, err)
	assert.Equal(t, "revised", found.Content())
	assert.Equal(t, 1, repo.Len())
}

func TestNodeRepository_Delete(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := NewNodeRepository()
	node := newNode(t, "Alpha")
	require.NoError(t, repo.Save(ctx, node))

	// Act
	require.NoError(t, repo.Delete(ctx, node.ID().String()))

	// Assert
	_, err := repo.FindByID(ctx, node.ID().String())
	assert.True(t, appErrors.IsNotFound(err))
}

func TestNodeRepository_Delete_MissingIDIsNoOp(t *testing.T) {
	repo := NewNodeRepository()

	assert.NoError(t, repo.Delete(context.Background(), "missing"))
}

func TestNodeRepository_Scan_ReturnsSnapshot(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := NewNodeRepository()
	require.NoError(t, repo.Save(ctx, newNode(t, "Alpha")))
	require.NoError(t, repo.Save(ctx, newNode(t, "Beta")))
	require.NoError(t, repo.Save(ctx, newNode(t, "Gamma")))

	// Act
	nodes, err := repo.Scan(ctx)

	// Assert
	require.NoError(t, err)
	assert.Len(t, nodes, 3)
}

func TestNodeRepository_CancelledContext(t *testing.T) {
	repo := NewNodeRepository()
	node := newNode(t, "Alpha")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, repo.Save(ctx, node))
	_, err := repo.FindByID(ctx, "anything")
	assert.Error(t, err)
	_, err = repo.Scan(ctx)
	assert.Error(t, err)
	assert.Error(t, repo.Delete(ctx, "anything"))
}

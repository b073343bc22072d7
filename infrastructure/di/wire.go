//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"atlas-backend/application/commands/bus"
	"atlas-backend/application/ports"
	querybus "atlas-backend/application/queries/bus"
	"atlas-backend/application/services"
	"atlas-backend/infrastructure/config"
	"atlas-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	NodeRepo     ports.NodeRepository
	NodeService  *services.NodeService
	Orchestrator *services.QueryOrchestrator
	CommandBus   *bus.CommandBus
	QueryBus     *querybus.QueryBus
	Cache        ports.Cache
	Metrics      *observability.Metrics
	Tuning       *config.TuningWatcher
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideNodeRepository,
	ProvideDomainConfig,
	ProvideNodeValidator,
	ProvideNodeService,
	ProvideMetrics,
	ProvideTuningWatcher,
	ProvideTuningSource,
	ProvideSourceRegistry,
	ProvideSourcePolicy,
	ProvideNavigator,
	ProvideAssembler,
	ProvideIntegrator,
	ProvideOrchestrator,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideInMemoryCache,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}

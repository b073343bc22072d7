package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"atlas-backend/application/commands"
	"atlas-backend/application/commands/bus"
	commandhandlers "atlas-backend/application/commands/handlers"
	"atlas-backend/application/ports"
	"atlas-backend/application/queries"
	querybus "atlas-backend/application/queries/bus"
	queryhandlers "atlas-backend/application/queries/handlers"
	"atlas-backend/application/services"
	domainconfig "atlas-backend/domain/config"
	"atlas-backend/domain/core/validators"
	"atlas-backend/domain/energy"
	"atlas-backend/infrastructure/config"
	"atlas-backend/infrastructure/persistence/dynamodb"
	"atlas-backend/infrastructure/persistence/memory"
	"atlas-backend/infrastructure/sources"
	"atlas-backend/pkg/observability"
)

// Cache TTL for node reads, in seconds
const nodeCacheTTL = 30

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = level
	}

	return zapCfg.Build()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideNodeRepository creates the node repository for the configured
// storage driver
func ProvideNodeRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) (ports.NodeRepository, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return memory.NewNodeRepository(), nil
	case config.StorageDynamoDB:
		return dynamodb.NewNodeRepository(client, cfg.DynamoDBTable, logger), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// ProvideDomainConfig selects the domain limits for the environment
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	if cfg.IsProduction() {
		return domainconfig.ProductionDomainConfig()
	}
	return domainconfig.DefaultDomainConfig()
}

// ProvideNodeValidator creates the node validator
func ProvideNodeValidator(domainCfg *domainconfig.DomainConfig) *validators.NodeValidator {
	return validators.NewNodeValidator(domainCfg)
}

// ProvideNodeService creates the node store service
func ProvideNodeService(repo ports.NodeRepository, validator *validators.NodeValidator, logger *zap.Logger) *services.NodeService {
	return services.NewNodeService(repo, validator, logger)
}

// ProvideMetrics creates the Prometheus metrics set
func ProvideMetrics() *observability.Metrics {
	return observability.NewMetrics()
}

// ProvideTuningWatcher loads runtime tuning, watching the configured
// file when one is set
func ProvideTuningWatcher(cfg *config.Config, logger *zap.Logger) (*config.TuningWatcher, error) {
	if cfg.TuningPath == "" {
		return config.NewStaticTuning(energy.DefaultTuning()), nil
	}

	watcher, err := config.NewTuningWatcher(cfg.TuningPath, logger)
	if err != nil {
		return nil, err
	}
	watcher.Start()
	return watcher, nil
}

// ProvideTuningSource exposes the watcher through the engine's port
func ProvideTuningSource(watcher *config.TuningWatcher) services.TuningSource {
	return watcher
}

// ProvideSourceRegistry builds the external source set. Configured
// sources win; with none configured the built-in trio is registered.
// Every source runs behind a circuit breaker.
func ProvideSourceRegistry(watcher *config.TuningWatcher, logger *zap.Logger) ports.SourceRegistry {
	specs := watcher.Sources()
	if len(specs) == 0 {
		specs = []config.SourceSpec{
			{Name: sources.SourceBroad, Relevance: 0.5, Cost: 20},
			{Name: sources.SourceCurated, Relevance: 0.7, Cost: 35},
			{Name: sources.SourceExpert, Relevance: 0.9, Cost: 60},
		}
	}

	registry := sources.NewRegistry()
	breakerCfg := sources.DefaultBreakerConfig()
	for _, spec := range specs {
		static := sources.NewStaticSource(spec.Name, spec.Relevance, spec.Preview, spec.Cost)
		registry.Add(sources.WrapWithBreaker(static, breakerCfg, logger))
	}
	return registry
}

// ProvideSourcePolicy creates the advisory intent policy
func ProvideSourcePolicy() ports.SourcePolicy {
	return sources.NewDefaultSourcePolicy()
}

// ProvideNavigator creates the subgraph navigator
func ProvideNavigator(nodes *services.NodeService, logger *zap.Logger) *services.SubgraphNavigator {
	return services.NewSubgraphNavigator(nodes, logger)
}

// ProvideAssembler creates the context assembler
func ProvideAssembler(logger *zap.Logger) *services.ContextAssembler {
	return services.NewContextAssembler(logger)
}

// ProvideIntegrator creates the external source integrator
func ProvideIntegrator(metrics *observability.Metrics, logger *zap.Logger) *services.ExternalSourceIntegrator {
	return services.NewExternalSourceIntegrator(metrics, logger)
}

// ProvideOrchestrator wires the full retrieval pipeline
func ProvideOrchestrator(
	navigator *services.SubgraphNavigator,
	assembler *services.ContextAssembler,
	integrator *services.ExternalSourceIntegrator,
	registry ports.SourceRegistry,
	policy ports.SourcePolicy,
	tuning services.TuningSource,
	domainCfg *domainconfig.DomainConfig,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *services.QueryOrchestrator {
	return services.NewQueryOrchestrator(
		navigator,
		assembler,
		integrator,
		registry,
		policy,
		tuning,
		domainCfg,
		metrics,
		logger,
	)
}

// ProvideCommandBus creates a command bus with registered handlers.
// Mutations run through cache invalidation so node reads never serve a
// view older than the last acknowledged write to the same node.
func ProvideCommandBus(nodes *services.NodeService, cache ports.Cache, logger *zap.Logger) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus()
	pipeline := bus.NewPipeline(
		bus.LoggingMiddleware(&busLoggerAdapter{logger}),
		cacheInvalidationMiddleware(cache),
	)

	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.CreateNodeCommand{}, commandhandlers.NewCreateNodeHandler(nodes, logger)},
		{commands.UpdateNodeCommand{}, commandhandlers.NewUpdateNodeHandler(nodes, logger)},
		{commands.DeleteNodeCommand{}, commandhandlers.NewDeleteNodeHandler(nodes, logger)},
	}

	for _, reg := range registrations {
		if err := commandBus.Register(reg.cmd, pipeline.Execute(reg.handler)); err != nil {
			return nil, err
		}
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers. Node
// reads are cached; the graph query never is, its result depends on the
// live ledger.
func ProvideQueryBus(
	nodes *services.NodeService,
	orchestrator *services.QueryOrchestrator,
	cache ports.Cache,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	caching := querybus.NewCachingMiddleware(cache, nodeCacheTTL)
	measured := querybus.NewMetricsMiddleware(queryMetricsAdapter{metrics})

	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.GetNodeQuery{}, measured.Wrap(caching.Wrap(queryhandlers.NewGetNodeHandler(nodes, logger)))},
		{queries.ListChildrenQuery{}, measured.Wrap(queryhandlers.NewListChildrenHandler(nodes, logger))},
		{queries.GraphQuery{}, measured.Wrap(queryhandlers.NewGraphQueryHandler(orchestrator, logger))},
	}

	for _, reg := range registrations {
		if err := queryBus.Register(reg.query, reg.handler); err != nil {
			return nil, err
		}
	}
	return queryBus, nil
}

// ProvideInMemoryCache creates a simple in-memory cache
// In production, this would be Redis or similar
func ProvideInMemoryCache() ports.Cache {
	return NewInMemoryCache()
}

// cacheInvalidationMiddleware drops the cached read model of a node
// after a successful mutation targeting it. Views of related nodes (a
// deleted node's descendants, a former parent) age out with the TTL.
func cacheInvalidationMiddleware(cache ports.Cache) bus.Middleware {
	return func(next bus.CommandHandler) bus.CommandHandler {
		return bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
			if err := next.Handle(ctx, cmd); err != nil {
				return err
			}
			switch c := cmd.(type) {
			case commands.UpdateNodeCommand:
				cache.Delete(ctx, querybus.CacheKey(queries.GetNodeQuery{NodeID: c.NodeID}))
			case commands.DeleteNodeCommand:
				cache.Delete(ctx, querybus.CacheKey(queries.GetNodeQuery{NodeID: c.NodeID}))
			}
			return nil
		})
	}
}

// queryMetricsAdapter bridges the metrics set to the query bus interface
type queryMetricsAdapter struct {
	metrics *observability.Metrics
}

func (a queryMetricsAdapter) StartTimer(metric, label string) querybus.Timer {
	return a.metrics.StartTimer(metric, label)
}

func (a queryMetricsAdapter) Increment(metric, label string) {
	a.metrics.Increment(metric, label)
}

// busLoggerAdapter adapts zap.Logger to the command bus Logger interface
type busLoggerAdapter struct {
	logger *zap.Logger
}

func (a *busLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, a.fieldsToZap(keysAndValues...)...)
}

func (a *busLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, a.fieldsToZap(keysAndValues...)...)
}

func (a *busLoggerAdapter) fieldsToZap(fields ...interface{}) []zap.Field {
	var zapFields []zap.Field
	for i := 0; i < len(fields); i += 2 {
		if i+1 < len(fields) {
			key, _ := fields[i].(string)
			zapFields = append(zapFields, zap.Any(key, fields[i+1]))
		}
	}
	return zapFields
}

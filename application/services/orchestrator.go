package services

import (
	"context"
	"time"

	"atlas-backend/application/ports"
	"atlas-backend/domain/config"
	"atlas-backend/domain/core/aggregates"
	"atlas-backend/domain/core/entities"
	"atlas-backend/domain/energy"
	pkgerrors "atlas-backend/pkg/errors"
	"atlas-backend/pkg/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// queryStage names the orchestrator's states. Stages advance strictly
// forward; exhaustion or cancellation jumps ahead to scoring, never back.
type queryStage string

const (
	stageInit        queryStage = "init"
	stageNavigating  queryStage = "navigating"
	stageAssembling  queryStage = "assembling_context"
	stageIntegrating queryStage = "integrating_external"
	stageScoring     queryStage = "scoring"
	stageDone        queryStage = "done"
)

// TuningSource supplies the current energy tuning; implementations may
// hot-reload behind this interface
type TuningSource interface {
	Current() energy.Tuning
}

// QueryRequest is the transport-agnostic retrieval request
type QueryRequest struct {
	SeedIDs      []string
	TotalBudget  float64
	Strategy     energy.Strategy
	ContextDepth int
	Sources      []string
	Intent       string
}

// QueryOrchestrator sequences navigation, context assembly, external
// integration, and scoring over one shared per-request ledger. Budget
// exhaustion at any stage is a normal termination path that yields a
// smaller result.
type QueryOrchestrator struct {
	navigator  *SubgraphNavigator
	assembler  *ContextAssembler
	integrator *ExternalSourceIntegrator
	registry   ports.SourceRegistry
	policy     ports.SourcePolicy
	tuning     TuningSource
	domainCfg  *config.DomainConfig
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewQueryOrchestrator wires the retrieval pipeline
func NewQueryOrchestrator(
	navigator *SubgraphNavigator,
	assembler *ContextAssembler,
	integrator *ExternalSourceIntegrator,
	registry ports.SourceRegistry,
	policy ports.SourcePolicy,
	tuning TuningSource,
	domainCfg *config.DomainConfig,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *QueryOrchestrator {
	return &QueryOrchestrator{
		navigator:  navigator,
		assembler:  assembler,
		integrator: integrator,
		registry:   registry,
		policy:     policy,
		tuning:     tuning,
		domainCfg:  domainCfg,
		metrics:    metrics,
		logger:     logger,
	}
}

// Execute runs one retrieval request through the stage machine. Only
// invalid requests and an unreachable store produce errors; everything
// else degrades into a smaller, still-valid result.
func (o *QueryOrchestrator) Execute(ctx context.Context, req QueryRequest) (*aggregates.QueryResult, error) {
	start := time.Now()

	if err := o.validate(req); err != nil {
		o.metrics.CountQuery("invalid")
		return nil, err
	}

	requestID := uuid.New().String()
	alloc := energy.NewAllocator(o.tuning.Current())
	ledger := energy.NewLedger(req.TotalBudget)
	stage := stageInit

	log := o.logger.With(
		zap.String("requestID", requestID),
		zap.Float64("budget", req.TotalBudget),
		zap.String("strategy", string(req.Strategy)),
	)

	var nodes []*entities.Node
	qc := &aggregates.QueryContext{
		Nodes:         []aggregates.NodeSummary{},
		Relationships: []aggregates.Relationship{},
	}
	integrations := []aggregates.ExternalResult{}

	// Navigating
	if o.advance(ctx, ledger, &stage, stageNavigating) {
		var err error
		nodes, err = o.navigator.Navigate(ctx, req.SeedIDs, ledger, req.ContextDepth, req.Strategy, alloc)
		if err != nil {
			o.metrics.CountQuery("error")
			return nil, pkgerrors.Wrap(err, "node store unreachable")
		}
		log.Debug("Navigation complete",
			zap.Int("nodes", len(nodes)),
			zap.Float64("remaining", ledger.Remaining()),
		)
	}

	// AssemblingContext
	if o.advance(ctx, ledger, &stage, stageAssembling) {
		qc = o.assembler.Assemble(ctx, nodes, ledger, alloc)
	}

	// IntegratingExternal
	if o.advance(ctx, ledger, &stage, stageIntegrating) {
		sources := o.resolveSources(req)
		if len(sources) > 0 {
			integrations = o.integrator.Integrate(ctx, sources, qc, ledger, alloc)
		}
	}

	// Scoring always runs, even after exhaustion or cancellation
	stage = stageScoring
	efficiency, confidence := score(ledger, len(qc.Nodes), len(integrations))

	result := &aggregates.QueryResult{
		RequestID:            requestID,
		Nodes:                qc.Nodes,
		Relationships:        qc.Relationships,
		ExternalIntegrations: integrations,
		EnergyUsed:           ledger.Used(),
		EnergyEfficiency:     efficiency,
		ConfidenceScore:      confidence,
	}
	stage = stageDone

	o.metrics.CountQuery("ok")
	o.metrics.ObserveQuery(time.Since(start), ledger.Used(), len(result.Nodes))
	log.Info("Query complete",
		zap.String("stage", string(stage)),
		zap.Int("nodes", len(result.Nodes)),
		zap.Int("integrations", len(integrations)),
		zap.Float64("energyUsed", result.EnergyUsed),
		zap.Float64("efficiency", result.EnergyEfficiency),
	)
	return result, nil
}

// advance moves to the next stage unless the ledger is spent or the
// request was cancelled, in which case the machine falls through to
// scoring with whatever was accumulated.
func (o *QueryOrchestrator) advance(ctx context.Context, ledger *energy.Ledger, stage *queryStage, next queryStage) bool {
	if ledger.Exhausted() || ctx.Err() != nil {
		return false
	}
	*stage = next
	return true
}

func (o *QueryOrchestrator) validate(req QueryRequest) error {
	if len(req.SeedIDs) == 0 {
		return pkgerrors.NewValidationError("seed node set cannot be empty")
	}
	if len(req.SeedIDs) > o.domainCfg.MaxSeedNodes {
		return pkgerrors.NewValidationError("too many seed nodes")
	}
	// A zero budget is a valid request that exhausts immediately; only a
	// negative budget is malformed.
	if req.TotalBudget < 0 {
		return pkgerrors.NewValidationError("total budget cannot be negative")
	}
	if req.ContextDepth < 0 {
		return pkgerrors.NewValidationError("context depth cannot be negative")
	}
	if req.ContextDepth > o.domainCfg.MaxContextDepth {
		return pkgerrors.NewValidationError("context depth too large")
	}
	if _, err := energy.ParseStrategy(string(req.Strategy)); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// resolveSources honors an explicit source list and otherwise falls back
// to the advisory selection policy
func (o *QueryOrchestrator) resolveSources(req QueryRequest) []ports.ExternalSource {
	names := req.Sources
	if len(names) == 0 && req.Intent != "" {
		names = o.policy.Select(req.Intent, string(req.Strategy), o.registry.Names())
	}
	return o.registry.Resolve(names)
}

// score computes the terminal efficiency and confidence figures. Both
// are clamped into [0,1]; the clamp is authoritative.
func score(ledger *energy.Ledger, contextNodes, integrations int) (efficiency, confidence float64) {
	total := ledger.Total()
	used := ledger.Used()

	if total > 0 {
		efficiency = clamp01((total - used) / total)
		if contextNodes > 0 && integrations > 0 {
			efficiency = clamp01(efficiency * 1.2)
		}
	}

	confidence = minf(float64(contextNodes)/10, 1) + minf(float64(integrations)*0.1, 0.3)
	if used > 0 {
		confidence += 0.2
	}
	confidence = clamp01(confidence)
	return efficiency, confidence
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

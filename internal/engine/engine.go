// Package engine wires the analysis pipeline together for the CLI:
// snapshot loading, graph construction, impact analysis, coverage
// augmentation, caching, and run persistence. The pipeline stages
// themselves stay pure; all I/O lives here.
package engine

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"clg/internal/change"
	"clg/internal/config"
	"clg/internal/connect"
	"clg/internal/coverage"
	"clg/internal/extract"
	"clg/internal/impact"
	"clg/internal/lineage"
	"clg/internal/logging"
	"clg/internal/output"
	"clg/internal/storage"
)

// Engine orchestrates analysis runs.
type Engine struct {
	cfg     *config.Config
	logger  *logging.Logger
	weights connect.Weights
	parser  *change.Parser
	store   *storage.DB // nil when storage is disabled
	cache   *lru.Cache[string, *impact.Analysis]
}

// New creates an engine. The run store is opened only when enabled in the
// configuration; a nil store disables persistence without failing analysis.
func New(cfg *config.Config, logger *logging.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.With(map[string]interface{}{"component": "engine"})

	weights := connect.DefaultWeights()
	if cfg.Analysis.WeightsPath != "" {
		w, err := connect.LoadWeights(cfg.Analysis.WeightsPath)
		if err != nil {
			return nil, err
		}
		weights = w
	}

	cacheSize := cfg.Analysis.CacheSize
	if cacheSize <= 0 {
		cacheSize = 64
	}
	cache, err := lru.New[string, *impact.Analysis](cacheSize)
	if err != nil {
		return nil, err
	}

	eng := &Engine{
		cfg:     cfg,
		logger:  logger,
		weights: weights,
		parser:  change.NewParser(),
		cache:   cache,
	}

	if cfg.Storage.Enabled && cfg.RepoRoot != "" {
		store, err := storage.Open(cfg.RepoRoot, logger)
		if err != nil {
			// Persistence is best-effort; analysis proceeds without it.
			logger.Warn("Run store unavailable, continuing without persistence", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			eng.store = store
		}
	}

	return eng, nil
}

// Close releases the run store.
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// Parser exposes the change request parser.
func (e *Engine) Parser() *change.Parser {
	return e.parser
}

// BuildGraph loads a snapshot and builds its lineage graph.
func (e *Engine) BuildGraph(snapshotPath string) (*lineage.Graph, *extract.Snapshot, error) {
	snap, err := extract.LoadSnapshot(snapshotPath)
	if err != nil {
		return nil, nil, err
	}

	for _, d := range snap.Validate() {
		e.logger.Warn("Snapshot defect", map[string]interface{}{
			"kind":    d.Kind,
			"subject": d.Subject,
			"detail":  d.Message,
		})
	}

	builder := lineage.NewBuilder(e.weights, e.logger)
	return builder.Build(snap), snap, nil
}

// AnalyzeImpact runs the full pipeline for one request against one
// snapshot file. Results are cached per (snapshot fingerprint, request id)
// and persisted when the run store is available.
func (e *Engine) AnalyzeImpact(snapshotPath string, req *change.Request) (*impact.Analysis, error) {
	if err := e.parser.Normalize(req); err != nil {
		return nil, err
	}

	graph, snap, err := e.BuildGraph(snapshotPath)
	if err != nil {
		return nil, err
	}

	fingerprint, err := snap.Fingerprint()
	if err != nil {
		return nil, err
	}

	cacheKey := fingerprint + "|" + req.ID
	if cached, ok := e.cache.Get(cacheKey); ok {
		e.logger.Debug("Analysis cache hit", map[string]interface{}{"key": cacheKey})
		return cached, nil
	}

	analyzer := impact.NewAnalyzer(e.cfg.Analysis.MaxDepth, e.logger)
	analysis, err := analyzer.Analyze(req, graph)
	if err != nil {
		return nil, err
	}

	coverage.Augment(analysis, snap.TestFiles)

	e.cache.Add(cacheKey, analysis)
	e.persistRun(fingerprint, req, graph, analysis)

	return analysis, nil
}

// persistRun stores the run if a store is open. Persistence failures are
// logged, not returned: the analysis result is already complete.
func (e *Engine) persistRun(fingerprint string, req *change.Request, g *lineage.Graph, analysis *impact.Analysis) {
	if e.store == nil {
		return
	}

	metadataJSON, err := output.DeterministicEncode(g.Metadata)
	if err != nil {
		e.logger.Warn("Failed to encode graph metadata", map[string]interface{}{"error": err.Error()})
		return
	}
	analysisJSON, err := output.DeterministicEncode(analysis)
	if err != nil {
		e.logger.Warn("Failed to encode analysis", map[string]interface{}{"error": err.Error()})
		return
	}

	run := &storage.Run{
		ID:                  "run-" + uuid.NewString(),
		SnapshotFingerprint: fingerprint,
		ChangeRequestID:     req.ID,
		ChangeType:          string(req.Type),
		NodeCount:           len(g.Nodes),
		EdgeCount:           len(g.Edges),
		MetadataJSON:        string(metadataJSON),
		AnalysisJSON:        string(analysisJSON),
	}
	if err := e.store.SaveRun(run); err != nil {
		e.logger.Warn("Failed to persist run", map[string]interface{}{"error": err.Error()})
	}
}

// ListRuns returns recent persisted runs, or nil when storage is disabled.
func (e *Engine) ListRuns(limit int) ([]*storage.Run, error) {
	if e.store == nil {
		return nil, nil
	}
	return e.store.ListRuns(limit)
}

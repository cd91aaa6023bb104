// Package pipeline orchestrates a full documentation run: scan the tree,
// build per-file inventories, detect endpoints, slice their context, document
// each one concurrently, and merge the fragments into one swagger document.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/qodex-ai/apimesh/internal/config"
	"github.com/qodex-ai/apimesh/internal/endpoints"
	"github.com/qodex-ai/apimesh/internal/generator"
	"github.com/qodex-ai/apimesh/internal/git"
	"github.com/qodex-ai/apimesh/internal/inventory"
	"github.com/qodex-ai/apimesh/internal/slicer"
	"github.com/qodex-ai/apimesh/internal/swagger"
)

// Pipeline wires the scan, detection, slicing, generation and merge phases
// together. The inventory cache is built single-threaded before any worker
// starts, so the concurrent phase only ever reads shared state.
type Pipeline struct {
	cfg       *config.Config
	generator generator.OperationGenerator
	gitOps    git.Operations
	progress  ProgressReporter
}

// New creates a pipeline. A nil progress reporter is replaced with a no-op.
func New(cfg *config.Config, gen generator.OperationGenerator, gitOps git.Operations, progress ProgressReporter) *Pipeline {
	if progress == nil {
		progress = noopProgress{}
	}
	return &Pipeline{
		cfg:       cfg,
		generator: gen,
		gitOps:    gitOps,
		progress:  progress,
	}
}

// Run executes a full documentation pass over rootDir and returns the merged
// document. Per-file and per-endpoint failures are logged and skipped; only
// setup failures (unwalkable tree, uncreatable cache) abort the run.
func (p *Pipeline) Run(ctx context.Context, rootDir string) (*swagger.Document, error) {
	started := time.Now()

	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve root dir: %w", err)
	}

	p.progress.OnScanStart()

	files, err := collectSourceFiles(rootDir, p.cfg.Scan)
	if err != nil {
		return nil, err
	}

	cache, err := inventory.NewCache(rootDir)
	if err != nil {
		return nil, err
	}
	defer cache.Remove()

	for _, file := range files {
		inv, err := inventory.Extract(file, rootDir)
		if err != nil {
			log.Printf("skipping %s: %v", file, err)
			continue
		}
		if err := cache.Put(inv); err != nil {
			log.Printf("cache %s: %v", file, err)
		}
	}

	apiFiles := prescan(files)
	p.progress.OnScanComplete(len(files), len(apiFiles))

	jobs := detectEndpoints(apiFiles)

	doc := swagger.NewDocument(
		p.gitOps.GetRepoName(rootDir),
		p.cfg.Output.Host,
		p.gitOps.GetCommitHash(rootDir),
		p.gitOps.GetRemoteURL(rootDir),
	)

	if len(jobs) > 0 {
		p.progress.OnDocumentationStart(len(jobs))
		if err := p.documentAll(ctx, jobs, cache.Snapshot(), doc); err != nil {
			return nil, err
		}
	}

	swagger.PostProcess(doc)
	p.progress.OnComplete(len(jobs), time.Since(started))
	return doc, nil
}

// ListEndpoints runs only the scan and detection phases and returns every
// record, including those whose route could not be determined. Routes are
// normalized to the bracket convention.
func ListEndpoints(rootDir string, scan config.ScanConfig) ([]endpoints.Record, error) {
	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve root dir: %w", err)
	}
	files, err := collectSourceFiles(rootDir, scan)
	if err != nil {
		return nil, err
	}

	var records []endpoints.Record
	for _, file := range prescan(files) {
		for _, record := range endpoints.Detect(file) {
			record.Route = swagger.NormalizeRoute(record.Route)
			records = append(records, record)
		}
	}
	return records, nil
}

// prescan keeps only the files whose raw text shows any sign of an endpoint
// definition, so detection parses a fraction of the tree.
func prescan(files []string) []string {
	var apiFiles []string
	for _, file := range files {
		source, err := os.ReadFile(file)
		if err != nil {
			log.Printf("prescan %s: %v", file, err)
			continue
		}
		if endpoints.ContainsAPIDefinitions(source) {
			apiFiles = append(apiFiles, file)
		}
	}
	return apiFiles
}

// detectEndpoints runs detection over the candidate files and normalizes
// every route to the bracket convention before the concurrent phase, so
// fragment merging keys stay stable. Records whose route could not be
// determined are dropped here.
func detectEndpoints(apiFiles []string) []endpoints.Record {
	var jobs []endpoints.Record
	for _, file := range apiFiles {
		for _, record := range endpoints.Detect(file) {
			if record.Route == "" {
				log.Printf("skipping %s endpoint at %s:%d: route not determinable", record.Method, record.FilePath, record.StartLine)
				continue
			}
			record.Route = swagger.NormalizeRoute(record.Route)
			jobs = append(jobs, record)
		}
	}
	return jobs
}

type endpointResult struct {
	record   endpoints.Record
	fragment *swagger.Fragment
}

// documentAll fans the jobs out over a bounded worker pool and merges the
// fragments on the coordinating goroutine in completion order.
func (p *Pipeline) documentAll(ctx context.Context, jobs []endpoints.Record, snapshot *inventory.Snapshot, doc *swagger.Document) error {
	results := make(chan endpointResult)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(p.cfg.Workers.Max, len(jobs)))

	go func() {
		for _, job := range jobs {
			g.Go(func() error {
				fragment := p.documentEndpoint(gctx, job, snapshot)
				if fragment == nil {
					return nil
				}
				select {
				case results <- endpointResult{record: job, fragment: fragment}:
				case <-gctx.Done():
				}
				return nil
			})
		}
		g.Wait()
		close(results)
	}()

	for result := range results {
		swagger.Merge(doc, result.fragment)
		p.progress.OnEndpointDocumented(result.record.Method, result.record.Route)
	}

	return ctx.Err()
}

// documentEndpoint slices one endpoint's context and asks the generator for
// its fragment. Failures contribute nothing to the document.
func (p *Pipeline) documentEndpoint(ctx context.Context, record endpoints.Record, snapshot *inventory.Snapshot) *swagger.Fragment {
	bundle, err := slicer.Slice(record, snapshot)
	if err != nil {
		log.Printf("slice %s %s: %v", record.Method, record.Route, err)
		return nil
	}

	fragment, err := p.generator.GenerateOperation(ctx, generator.Request{
		Method:        record.Method,
		Route:         record.Route,
		FilePath:      record.FilePath,
		HandlerLines:  bundle.Handler,
		ContextBlocks: bundle.ContextBlocks,
	})
	if err != nil {
		log.Printf("document %s %s: %v", record.Method, record.Route, err)
		return nil
	}
	return fragment
}

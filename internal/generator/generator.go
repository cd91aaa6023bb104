// Package generator produces one OpenAPI fragment per detected endpoint from
// its sliced source context.
package generator

import (
	"context"

	"github.com/qodex-ai/apimesh/internal/swagger"
)

// Request carries everything the generator may use for one endpoint: the
// detected method and (already normalized) route, the handler source lines,
// and the dependency context blocks assembled by the slicer.
type Request struct {
	Method        string
	Route         string
	FilePath      string
	HandlerLines  []string
	ContextBlocks [][]string
}

// OperationGenerator turns one endpoint request into an OpenAPI fragment.
// Implementations must be safe for concurrent use; the pipeline calls
// GenerateOperation from multiple workers.
type OperationGenerator interface {
	GenerateOperation(ctx context.Context, req Request) (*swagger.Fragment, error)
}

package compress

import (
	"fmt"

	"go.uber.org/zap"

	"smartconv/internal/port"
	"smartconv/internal/toolrun"
)

// Deps are the collaborators a strategy factory may use.
type Deps struct {
	Runner          toolrun.Runner
	GhostscriptPath string
	Engine          port.PDFEngine
	Rasterizer      port.Rasterizer
	Logger          *zap.Logger
}

// StrategyFactory creates a Compressor from shared dependencies.
type StrategyFactory func(deps Deps) port.Compressor

var strategies = map[string]StrategyFactory{
	"ghostscript": func(d Deps) port.Compressor { return NewGhostscript(d.GhostscriptPath, d.Runner) },
	"rasterize":   func(d Deps) port.Compressor { return NewRasterize(d.Rasterizer, d.Engine) },
	"optimize":    func(d Deps) port.Compressor { return NewOptimize(d.Engine) },
}

// RegisterStrategy registers a compression strategy factory by name.
func RegisterStrategy(name string, factory StrategyFactory) {
	strategies[name] = factory
}

// NewStrategy creates a Compressor by name using the registered factory.
func NewStrategy(name string, deps Deps) (port.Compressor, error) {
	factory, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown compression strategy: %s", name)
	}
	return factory(deps), nil
}

// NewChainFromNames builds a Chain from an ordered list of strategy names.
func NewChainFromNames(names []string, deps Deps) (*Chain, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("compress.NewChainFromNames: no strategies configured")
	}
	list := make([]port.Compressor, 0, len(names))
	for _, n := range names {
		s, err := NewStrategy(n, deps)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return NewChain(list, deps.Engine, deps.Logger), nil
}

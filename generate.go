package strand

import (
	"context"
	"io"
)

// Generator orchestrates tabular generation against a TableProvider.
type Generator struct {
	provider TableProvider
}

// NewGenerator creates a new Generator with the given provider.
func NewGenerator(provider TableProvider) *Generator {
	return &Generator{provider: provider}
}

// GenerateOption configures a single Run invocation.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	onSnapshot func(Table)
	model      string
}

// WithTableSnapshotHandler sets a callback that receives a snapshot of the
// accumulated table after each header or row event.
func WithTableSnapshotHandler(h func(Table)) GenerateOption {
	return func(c *generateConfig) {
		c.onSnapshot = h
	}
}

// WithGenerateModel sets the model ID for this run.
func WithGenerateModel(model string) GenerateOption {
	return func(c *generateConfig) {
		c.model = model
	}
}

// Preview requests a single example row: the stream is closed as soon as the
// first row arrives, even if the backend keeps sending. Rows already
// buffered by the transport when Close is issued are discarded. Returns the
// snapshot holding the header and at most one row.
func (g *Generator) Preview(ctx context.Context, req TableRequest) (Table, error) {
	req.Preview = true
	if err := req.Validate(); err != nil {
		return Table{}, err
	}

	stream, err := g.provider.StreamTable(ctx, req)
	if err != nil {
		return Table{}, err
	}
	defer stream.Close()

	for {
		evt, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, err
		}
		if _, ok := evt.(EventRow); ok {
			break
		}
	}

	return stream.Table()
}

// Run streams the full table. The final snapshot is returned after the
// stream reaches its terminal state; on error the partial table is discarded
// and only the error is trusted.
func (g *Generator) Run(ctx context.Context, req TableRequest, opts ...GenerateOption) (Table, error) {
	var cfg generateConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	req.Preview = false
	req.Model = pickModel(req.Model, cfg.model)
	if err := req.Validate(); err != nil {
		return Table{}, err
	}

	stream, err := g.provider.StreamTable(ctx, req)
	if err != nil {
		return Table{}, err
	}
	defer stream.Close()

	for {
		evt, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, err
		}
		switch evt.(type) {
		case EventHeader, EventRow:
			if cfg.onSnapshot != nil {
				if snap, err := stream.Table(); err == nil {
					cfg.onSnapshot(snap)
				}
			}
		}
	}

	return stream.Table()
}

func pickModel(reqModel, optModel string) string {
	if optModel != "" {
		return optModel
	}
	return reqModel
}

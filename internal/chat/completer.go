package chat

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// genkitCompleter is the production Completer, backed by a Genkit
// instance with a configured model plugin. Tool requests are returned
// to the orchestrator rather than being auto-executed, so dispatch
// order and result persistence stay under our control.
type genkitCompleter struct {
	g         *genkit.Genkit
	modelName string
	toolRefs  []ai.ToolRef
}

// NewGenkitCompleter wraps a Genkit instance as a Completer. The tools
// must already be defined on the instance; they are only declared to
// the model when a request opts in.
func NewGenkitCompleter(g *genkit.Genkit, modelName string, registered []ai.Tool) Completer {
	refs := make([]ai.ToolRef, 0, len(registered))
	for _, t := range registered {
		refs = append(refs, t)
	}
	return &genkitCompleter{
		g:         g,
		modelName: modelName,
		toolRefs:  refs,
	}
}

func (c *genkitCompleter) Complete(ctx context.Context, messages []*ai.Message, opts CompleteOptions) (*Completion, error) {
	genOpts := []ai.GenerateOption{
		ai.WithMessages(messages...),
	}
	if c.modelName != "" {
		genOpts = append(genOpts, ai.WithModelName(c.modelName))
	}
	if opts.OfferTools && len(c.toolRefs) > 0 {
		genOpts = append(genOpts,
			ai.WithTools(c.toolRefs...),
			ai.WithReturnToolRequests(true),
		)
	}
	if opts.Stream != nil {
		genOpts = append(genOpts, ai.WithStreaming(func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
			return opts.Stream(ctx, chunk.Text())
		}))
	}

	resp, err := genkit.Generate(ctx, c.g, genOpts...)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	return &Completion{
		Message:      resp.Message,
		Text:         resp.Text(),
		ToolRequests: resp.ToolRequests(),
	}, nil
}

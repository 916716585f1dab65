package preprocessing

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/sugiyama-h/tabkit/core/model"
	"github.com/sugiyama-h/tabkit/pkg/errors"
)

// Step is one named stage of a Pipeline.
type Step struct {
	Name        string
	Transformer model.Transformer
}

// Pipeline chains transformers so a whole preprocessing sequence fits and
// applies as a single unit. Fit runs fit-transform through the chain, so
// each stage learns from the output of the previous one.
type Pipeline struct {
	state *model.StateManager
	steps []Step
}

// NewPipeline creates a pipeline from ordered steps.
func NewPipeline(steps ...Step) (*Pipeline, error) {
	if len(steps) == 0 {
		return nil, errors.NewValidationError("steps", "pipeline needs at least one step", len(steps))
	}
	seen := map[string]bool{}
	for _, s := range steps {
		if s.Name == "" || s.Transformer == nil {
			return nil, errors.NewValidationError("steps", "step needs a name and a transformer", s.Name)
		}
		if seen[s.Name] {
			return nil, errors.NewValidationError("steps", "duplicate step name", s.Name)
		}
		seen[s.Name] = true
	}
	return &Pipeline{state: model.NewStateManager(), steps: steps}, nil
}

// Fit fits every stage in order, feeding each stage the transformed output
// of the one before it.
func (p *Pipeline) Fit(X mat.Matrix) error {
	cur := X
	for _, s := range p.steps {
		out, err := s.Transformer.FitTransform(cur)
		if err != nil {
			return errors.Wrapf(err, "pipeline step %q", s.Name)
		}
		cur = out
	}
	r, c := X.Dims()
	p.state.SetDimensions(r, c)
	p.state.SetFitted()
	return nil
}

// Transform applies every fitted stage in order.
func (p *Pipeline) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !p.state.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Transform")
	}
	cur := X
	for _, s := range p.steps {
		out, err := s.Transformer.Transform(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline step %q", s.Name)
		}
		cur = out
	}
	return cur, nil
}

// FitTransform fits the chain on X and returns the fully transformed data.
func (p *Pipeline) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// Steps returns the pipeline's stages in order.
func (p *Pipeline) Steps() []Step {
	return p.steps
}

func (p *Pipeline) String() string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return fmt.Sprintf("Pipeline(%s)", strings.Join(names, " -> "))
}

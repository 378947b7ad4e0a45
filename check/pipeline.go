package check

import (
	"context"

	"github.com/sanketagarwal/email-verifier/internal/parse"
	"github.com/sanketagarwal/email-verifier/types"
)

// Stage names, as reported in types.Verdict.Stage.
const (
	StageSyntax     = "syntax"
	StageTypo       = "typo"
	StageDisposable = "disposable"
	StageRole       = "role"
)

// Stage is one step of the classification pipeline. It either returns a
// final verdict or lets the address continue to the next stage.
type Stage interface {
	Name() string
	Check(ctx context.Context, email parse.Email) types.Verdict
}

// Pipeline runs stages in order and keeps the first final verdict.
type Pipeline struct {
	stages []Stage
}

// NewPipeline builds a pipeline. The order of stages is the precedence order.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// DefaultPipeline is syntax, typo, disposable, role.
func DefaultPipeline() *Pipeline {
	return NewPipeline(
		NewSyntaxChecker(),
		NewTypoChecker(TypoConfig{}),
		NewDisposableChecker(),
		NewRoleChecker(),
	)
}

// Stages returns the stage names in order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Run returns the first final verdict, or a non-final verdict when every
// stage let the address through and it still needs domain confirmation.
func (p *Pipeline) Run(ctx context.Context, email parse.Email) types.Verdict {
	for _, s := range p.stages {
		if v := s.Check(ctx, email); v.Final {
			return v
		}
	}
	return types.Verdict{Outcome: types.Outcome{Email: email.Normalized}}
}

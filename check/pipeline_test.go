package check_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sanketagarwal/email-verifier/check"
	"github.com/sanketagarwal/email-verifier/internal/parse"
	"github.com/sanketagarwal/email-verifier/types"
)

// countingStage records how often it ran and never decides.
type countingStage struct{ calls int }

func (s *countingStage) Name() string { return "counting" }

func (s *countingStage) Check(_ context.Context, _ parse.Email) types.Verdict {
	s.calls++
	return types.Continue("counting")
}

func TestDefaultPipeline_Order(t *testing.T) {
	p := check.DefaultPipeline()
	assert.Equal(t, []string{
		check.StageSyntax, check.StageTypo, check.StageDisposable, check.StageRole,
	}, p.Stages())
}

func TestPipeline_Precedence(t *testing.T) {
	p := check.DefaultPipeline()
	ctx := context.Background()

	tests := []struct {
		name   string
		email  string
		stage  string
		status types.Status
		final  bool
	}{
		{"syntax beats everything", "info@@mailinator.com", check.StageSyntax, types.StatusInvalid, true},
		{"typo beats role", "info@gmial.com", check.StageTypo, types.StatusRisky, true},
		{"disposable beats role", "admin@mailinator.com", check.StageDisposable, types.StatusInvalid, true},
		{"role", "support@example.com", check.StageRole, types.StatusRisky, true},
		{"pending", "jane@example.com", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := p.Run(ctx, parse.New(tt.email))
			assert.Equal(t, tt.final, v.Final)
			assert.Equal(t, tt.stage, v.Stage)
			assert.Equal(t, tt.status, v.Outcome.Status)
		})
	}
}

func TestPipeline_ShortCircuits(t *testing.T) {
	after := &countingStage{}
	p := check.NewPipeline(check.NewSyntaxChecker(), after)

	p.Run(context.Background(), parse.New("broken"))
	assert.Equal(t, 0, after.calls)

	v := p.Run(context.Background(), parse.New("Jane@Example.com"))
	assert.Equal(t, 1, after.calls)
	assert.False(t, v.Final)
	assert.Equal(t, "jane@example.com", v.Outcome.Email)
}

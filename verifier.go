package emailverifier

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sanketagarwal/email-verifier/check"
	"github.com/sanketagarwal/email-verifier/internal/logging"
	"github.com/sanketagarwal/email-verifier/internal/parse"
	"github.com/sanketagarwal/email-verifier/resolve"
	"github.com/sanketagarwal/email-verifier/types"
)

// Verifier is the main fluent builder struct.
// Instantiate with the New() function. A configured Verifier is safe for
// concurrent use; every VerifyBatch call gets its own per-batch cache.
type Verifier struct {
	resolver    resolve.Resolver
	resolveOpts ResolveOptions
	domainOpts  DomainOptions
	stages      []check.Stage // overrides domainOpts when set
	shared      resolve.Cache
	log         *zap.Logger
	err         error // configuration error, returned on Verify
}

// New creates a Verifier with the default pattern checks and the system DNS
// resolver. Syntax checking always runs first and cannot be disabled.
func New() *Verifier {
	return &Verifier{
		resolver:    resolve.NewSystemResolver(),
		resolveOpts: DefaultResolveOptions(),
		domainOpts:  DefaultDomainOptions(),
		log:         zap.NewNop(),
	}
}

// WithResolver sets the resolver used for MX and A lookups.
func (v *Verifier) WithResolver(r Resolver) *Verifier {
	if r == nil {
		v.err = ErrNoResolver
		return v
	}
	v.resolver = r
	return v
}

// WithResolveOptions overrides the default ResolveOptions. Zero fields keep
// their defaults.
func (v *Verifier) WithResolveOptions(opts ResolveOptions) *Verifier {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultResolveOptions().Timeout
	}
	v.resolveOpts = opts
	return v
}

// WithDomainOptions overrides the default DomainOptions.
func (v *Verifier) WithDomainOptions(opts DomainOptions) *Verifier {
	v.domainOpts = opts
	v.stages = nil
	return v
}

// WithStages replaces the pattern checks with custom stages, run in the
// given order after the syntax check.
func (v *Verifier) WithStages(stages ...check.Stage) *Verifier {
	v.stages = stages
	return v
}

// WithSharedCache backs every batch with a cache that outlives it. Only
// confirmed lookups are written to it.
func (v *Verifier) WithSharedCache(c Cache) *Verifier {
	v.shared = c
	return v
}

// WithLogger sets the logger. The default discards everything.
func (v *Verifier) WithLogger(log *zap.Logger) *Verifier {
	if log != nil {
		v.log = log
	}
	return v
}

// Verify classifies a single address. It is a batch of one.
func (v *Verifier) Verify(ctx context.Context, email string) (Outcome, error) {
	report, err := v.VerifyBatch(ctx, []string{email})
	if len(report.Results) == 0 {
		return Outcome{}, err
	}
	return report.Results[0], err
}

// VerifyBatch classifies every address. Results are index-aligned with
// emails and every address gets exactly one outcome.
//
// Addresses run through the pattern stages first. The distinct domains of
// the remaining addresses are then resolved in groups of GroupSize, each
// group finishing before the next one starts. Every domain is looked up at
// most once per batch.
//
// If ctx ends before all groups are done, the addresses still waiting for
// their domain are marked risky with ReasonIncomplete and the report is
// returned together with ctx.Err().
func (v *Verifier) VerifyBatch(ctx context.Context, emails []string, opts ...BatchOptions) (Report, error) {
	if v.err != nil {
		return Report{}, v.err
	}

	o := defaultBatchOptions()
	if len(opts) > 0 {
		o = opts[0]
		if o.GroupSize <= 0 {
			o.GroupSize = defaultBatchOptions().GroupSize
		}
	}

	b := &batch{
		id:      uuid.NewString(),
		results: make([]Outcome, len(emails)),
		pending: make(map[string][]int),
		opts:    o,
		log:     v.log,
	}

	pipeline := v.pipeline()
	for i, raw := range emails {
		b.classify(ctx, pipeline, i, raw)
	}
	b.report()

	svc := resolve.New(v.resolver, resolve.NewBatchCache(v.shared), resolve.Config{
		Timeout:     v.resolveOpts.Timeout,
		FallbackToA: !v.resolveOpts.DisableAFallback,
	}, v.log)
	err := b.resolveDomains(ctx, svc)

	report := Report{
		ID:      b.id,
		Results: b.results,
		Summary: Summarize(b.results),
		Domains: len(b.domains),
		Lookups: svc.Lookups(),
		Assumed: svc.Assumed(),
	}
	v.log.Info("batch verified",
		zap.String("batch_id", report.ID),
		zap.Int("total", report.Summary.Total),
		zap.Int("valid", report.Summary.Valid),
		zap.Int("invalid", report.Summary.Invalid),
		zap.Int("risky", report.Summary.Risky),
		zap.Int("domains", report.Domains),
		zap.Int("lookups", report.Lookups),
		zap.Int("assumed", report.Assumed),
	)
	return report, err
}

// pipeline builds the stage list: syntax first, then the pattern checks.
func (v *Verifier) pipeline() *check.Pipeline {
	stages := []check.Stage{check.NewSyntaxChecker()}
	if v.stages != nil {
		return check.NewPipeline(append(stages, v.stages...)...)
	}

	o := v.domainOpts
	if o.CheckTypos {
		stages = append(stages, check.NewTypoChecker(check.TypoConfig{
			Fuzzy:     o.FuzzyTypos,
			Threshold: o.TypoThreshold,
		}))
	}
	if o.CheckDisposable {
		stages = append(stages, check.NewDisposableChecker())
	}
	if o.CheckRoles {
		stages = append(stages, check.NewRoleChecker())
	}
	return check.NewPipeline(stages...)
}

// batch is the state of one VerifyBatch call.
type batch struct {
	id      string
	results []Outcome
	// pending maps an ASCII domain to the indexes waiting for it.
	pending map[string][]int
	// domains lists pending domains in first-seen order.
	domains []string
	done    int
	opts    BatchOptions
	log     *zap.Logger
}

// classify runs the pattern stages for one address. A panic is contained
// to that address.
func (b *batch) classify(ctx context.Context, pipeline *check.Pipeline, i int, raw string) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("panic while classifying address",
				zap.String("batch_id", b.id),
				zap.Int("index", i),
				logging.Email("email", raw),
				zap.Any("panic", r),
			)
			b.results[i] = Outcome{
				Email:  parse.Normalize(raw),
				Status: types.StatusInvalid,
				Reason: ReasonInternalError,
			}
			b.done++
		}
	}()

	email := parse.New(raw)
	verdict := pipeline.Run(ctx, email)
	if verdict.Final {
		b.results[i] = verdict.Outcome
		b.done++
		return
	}

	// provisional until the domain is answered
	b.results[i] = Outcome{
		Email:  email.Normalized,
		Status: types.StatusRisky,
		Reason: ReasonIncomplete,
	}
	d := email.ASCIIDomain
	if _, seen := b.pending[d]; !seen {
		b.domains = append(b.domains, d)
	}
	b.pending[d] = append(b.pending[d], i)
}

// answer is the resolution of one domain within a group.
type answer struct {
	m   resolve.Mailability
	err error
}

// resolveDomains resolves pending domains group by group and settles the
// addresses waiting for them.
func (b *batch) resolveDomains(ctx context.Context, svc *resolve.Service) error {
	size := b.opts.GroupSize
	for start := 0; start < len(b.domains); start += size {
		if start > 0 && b.opts.GroupPause > 0 {
			timer := time.NewTimer(b.opts.GroupPause)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
			}
		}
		if ctx.Err() != nil {
			break
		}

		group := b.domains[start:min(start+size, len(b.domains))]
		answers := resolveGroup(ctx, svc, group)
		for j, d := range group {
			b.settle(d, answers[j])
		}
		b.report()
	}

	if b.done < len(b.results) {
		if err := ctx.Err(); err != nil {
			b.log.Warn("batch cancelled before all domains were checked",
				zap.String("batch_id", b.id),
				zap.Int("incomplete", len(b.results)-b.done),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}

// resolveGroup runs the lookups of one group in parallel and waits for all
// of them.
func resolveGroup(ctx context.Context, svc *resolve.Service, group []string) []answer {
	answers := make([]answer, len(group))
	// group is already at most GroupSize domains long
	var g errgroup.Group
	for j, d := range group {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					answers[j] = answer{err: fmt.Errorf("resolve %s: panic: %v", d, r)}
				}
			}()
			answers[j] = answer{m: svc.Resolve(ctx, d)}
			return nil
		})
	}
	_ = g.Wait()
	return answers
}

// settle assigns the final outcome to every address waiting for domain.
// Cancelled lookups leave the addresses at ReasonIncomplete.
func (b *batch) settle(domain string, a answer) {
	var status types.Status
	var reason string
	switch {
	case a.err != nil:
		b.log.Error("domain resolution failed",
			zap.String("batch_id", b.id),
			zap.String("domain", domain),
			zap.Error(a.err),
		)
		status, reason = types.StatusInvalid, ReasonInternalError
	case a.m.Source == resolve.SourceCancelled:
		return
	case a.m.Mailable:
		status, reason = types.StatusValid, ReasonAllPassed
	default:
		status, reason = types.StatusInvalid, ReasonNoMailServer
	}

	for _, i := range b.pending[domain] {
		b.results[i].Status = status
		b.results[i].Reason = reason
		b.done++
	}
}

func (b *batch) report() {
	if b.opts.Progress != nil {
		b.opts.Progress(b.done, len(b.results))
	}
}

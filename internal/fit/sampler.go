package fit

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler defaults. Walker and step counts are configuration, not fixed
// constants; these are the values the reference fits were run with.
const (
	// DefaultWalkers is the default ensemble size.
	DefaultWalkers = 180

	// DefaultBurnSteps is the default number of discarded burn-in
	// iterations.
	DefaultBurnSteps = 300

	// DefaultProductionSteps is the default number of recorded
	// iterations.
	DefaultProductionSteps = 2000

	// DefaultJitterScale is the standard deviation of the Gaussian
	// jitter applied to the initial parameter vector per walker.
	DefaultJitterScale = 1e-7

	// DefaultStretchScale is the stretch-move scale parameter a; z is
	// drawn from g(z) ∝ 1/√z on [1/a, a]. a=2 is the standard choice.
	DefaultStretchScale = 2.0
)

// Config collects sampler settings. The zero value is usable: unset
// fields fall back to the defaults above, Workers to the CPU count, and
// Seed to the wall clock.
type Config struct {
	// Walkers is the ensemble size. Must be even and at least twice the
	// sampled dimensionality (the stretch move updates one half of the
	// ensemble against the other).
	Walkers int

	// BurnSteps is the number of burn-in iterations whose history is
	// discarded.
	BurnSteps int

	// ProductionSteps is the number of recorded iterations run from the
	// post-burn-in walker positions.
	ProductionSteps int

	// JitterScale is the standard deviation of the per-walker Gaussian
	// jitter around the initial parameter vector.
	JitterScale float64

	// Workers bounds the posterior-evaluation worker pool. Pool size
	// affects throughput only, never results: all random draws happen
	// on the calling goroutine.
	Workers int

	// Seed seeds the run's random stream. Zero means seed from the
	// clock; any other value makes the run reproducible.
	Seed uint64

	// StretchScale is the stretch-move scale parameter a.
	StretchScale float64
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.Walkers == 0 {
		c.Walkers = DefaultWalkers
	}
	if c.BurnSteps == 0 {
		c.BurnSteps = DefaultBurnSteps
	}
	if c.ProductionSteps == 0 {
		c.ProductionSteps = DefaultProductionSteps
	}
	if c.JitterScale == 0 {
		c.JitterScale = DefaultJitterScale
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}
	if c.StretchScale == 0 {
		c.StretchScale = DefaultStretchScale
	}
	return c
}

// validate checks the configuration against the sampled dimensionality.
func (c Config) validate(dim int) error {
	if c.Walkers < 2*dim || c.Walkers%2 != 0 {
		return fmt.Errorf("fit: walker count must be even and at least %d, got %d", 2*dim, c.Walkers)
	}
	if c.BurnSteps < 0 || c.ProductionSteps <= 0 {
		return fmt.Errorf("fit: step counts must be positive (burn=%d production=%d)", c.BurnSteps, c.ProductionSteps)
	}
	if c.JitterScale <= 0 {
		return fmt.Errorf("fit: jitter scale must be positive, got %g", c.JitterScale)
	}
	if c.StretchScale <= 1 {
		return fmt.Errorf("fit: stretch scale must exceed 1, got %g", c.StretchScale)
	}
	return nil
}

// LogProber is the sampling target: a log-probability density over a
// fixed-dimension parameter vector. Posterior is the production
// implementation. Implementations must be safe for concurrent calls.
type LogProber interface {
	// Dim returns the parameter vector length.
	Dim() int

	// LogProb returns the log-density at theta; -Inf marks rejection.
	LogProb(theta []float64) float64
}

// Sampler runs affine-invariant ensemble sampling against a LogProber.
type Sampler struct {
	cfg    Config
	logger *slog.Logger
}

// SamplerOption configures a Sampler.
type SamplerOption func(*Sampler)

// WithLogger sets a custom logger for run progress.
func WithLogger(logger *slog.Logger) SamplerOption {
	return func(s *Sampler) {
		s.logger = logger
	}
}

// NewSampler creates a Sampler with the given configuration.
func NewSampler(cfg Config, opts ...SamplerOption) *Sampler {
	s := &Sampler{cfg: cfg.withDefaults()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Run executes burn-in followed by production sampling from the given
// initial parameter vector. Each iteration dispatches one posterior
// evaluation per updated walker to the worker pool and blocks on the
// iteration's completion before advancing; there is no overlap between
// iterations or between burn-in and production.
//
// There is no checkpointing: cancelling the context aborts the run and
// discards all in-progress chain state.
func (s *Sampler) Run(ctx context.Context, post LogProber, initial []float64) (*Result, error) {
	dim := len(initial)
	if dim != post.Dim() {
		return nil, fmt.Errorf("fit: initial vector has %d dimensions, posterior wants %d", dim, post.Dim())
	}
	if err := s.cfg.validate(dim); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(s.cfg.Seed))
	jitter := distuv.Normal{Mu: 0, Sigma: s.cfg.JitterScale, Src: rng}

	positions := make([][]float64, s.cfg.Walkers)
	for w := range positions {
		positions[w] = make([]float64, dim)
		for d := range positions[w] {
			positions[w][d] = initial[d] + jitter.Rand()
		}
	}

	logProbs := make([]float64, s.cfg.Walkers)
	if err := s.evaluateAll(ctx, post, positions, logProbs); err != nil {
		return nil, err
	}
	if allNegInf(logProbs) {
		return nil, fmt.Errorf("fit: initial position has zero posterior probability (T=%g)", initial[1])
	}

	start := time.Now()
	s.logger.Info("running burn-in",
		"walkers", s.cfg.Walkers,
		"steps", s.cfg.BurnSteps,
		"dim", dim,
	)
	if err := s.advance(ctx, post, positions, logProbs, s.cfg.BurnSteps, nil, rng); err != nil {
		return nil, err
	}

	s.logger.Info("running production",
		"walkers", s.cfg.Walkers,
		"steps", s.cfg.ProductionSteps,
	)
	chain := make([][]float64, 0, s.cfg.Walkers*s.cfg.ProductionSteps)
	if err := s.advance(ctx, post, positions, logProbs, s.cfg.ProductionSteps, &chain, rng); err != nil {
		return nil, err
	}

	s.logger.Info("sampling complete",
		"samples", len(chain),
		"elapsed", time.Since(start),
	)

	return &Result{
		Chain:           chain,
		FinalPositions:  positions,
		FinalLogProbs:   logProbs,
		Dim:             dim,
		Walkers:         s.cfg.Walkers,
		ProductionSteps: s.cfg.ProductionSteps,
	}, nil
}

// advance runs the ensemble for the given number of iterations, updating
// positions and logProbs in place. When chain is non-nil every walker
// position is appended after each iteration.
//
// All random draws happen serially on the calling goroutine before the
// parallel posterior evaluations, so results are independent of worker
// pool size.
func (s *Sampler) advance(ctx context.Context, post LogProber, positions [][]float64, logProbs []float64, steps int, chain *[][]float64, rng *rand.Rand) error {
	walkers := len(positions)
	half := walkers / 2
	dim := len(positions[0])
	a := s.cfg.StretchScale

	proposals := make([][]float64, half)
	stretch := make([]float64, half)
	logAccept := make([]float64, half)
	proposedLP := make([]float64, half)

	for step := 0; step < steps; step++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("fit: sampling interrupted: %w", err)
		}

		// Update each half of the ensemble against the other.
		for _, offset := range []int{0, half} {
			complement := half - offset
			for i := 0; i < half; i++ {
				w := offset + i
				partner := positions[complement+rng.Intn(half)]

				// z ~ g(z) ∝ 1/√z on [1/a, a] via inverse transform.
				u := rng.Float64()
				z := (u*(a-1) + 1)
				z = z * z / a

				prop := make([]float64, dim)
				for d := range prop {
					prop[d] = partner[d] + z*(positions[w][d]-partner[d])
				}
				proposals[i] = prop
				stretch[i] = z
				logAccept[i] = math.Log(rng.Float64())
			}

			if err := s.evaluateAll(ctx, post, proposals, proposedLP); err != nil {
				return err
			}

			for i := 0; i < half; i++ {
				w := offset + i
				logRatio := float64(dim-1)*math.Log(stretch[i]) + proposedLP[i] - logProbs[w]
				if logAccept[i] < logRatio {
					positions[w] = proposals[i]
					logProbs[w] = proposedLP[i]
				}
			}
		}

		if chain != nil {
			for w := range positions {
				row := make([]float64, dim)
				copy(row, positions[w])
				*chain = append(*chain, row)
			}
		}
	}
	return nil
}

// evaluateAll computes the log-posterior of each position into out,
// fanning out over the bounded worker pool. Workers are stateless and
// share only read-only data, so no locking is needed; each goroutine
// writes a distinct index.
func (s *Sampler) evaluateAll(ctx context.Context, post LogProber, positions [][]float64, out []float64) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i := range positions {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			out[i] = post.LogProb(positions[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fit: posterior evaluation: %w", err)
	}
	return nil
}

// allNegInf reports whether every value is -Inf.
func allNegInf(values []float64) bool {
	for _, v := range values {
		if !math.IsInf(v, -1) {
			return false
		}
	}
	return true
}

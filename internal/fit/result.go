package fit

// Result is the immutable outcome of a sampler run. It is produced once
// by Sampler.Run and consumed by the summarizer and the chain store.
type Result struct {
	// Chain is the flattened production chain: one row per walker per
	// production step, walkers varying fastest, each row one sampled
	// parameter vector.
	Chain [][]float64

	// FinalPositions holds each walker's position after the last
	// production step.
	FinalPositions [][]float64

	// FinalLogProbs holds each walker's log-posterior at its final
	// position.
	FinalLogProbs []float64

	// Dim is the sampled dimensionality (2 or 3).
	Dim int

	// Walkers is the walker count used for the run.
	Walkers int

	// ProductionSteps is the number of recorded iterations.
	ProductionSteps int
}

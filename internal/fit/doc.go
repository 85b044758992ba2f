// Package fit implements the Bayesian side of the fitting engine: the
// log-posterior over modified-blackbody parameters, an affine-invariant
// ensemble sampler (Goodman & Weare stretch moves) with a bounded worker
// pool, and posterior summarization into credible intervals and
// posterior-predictive flux bands.
//
// Prior rejection is represented as a -Inf log-posterior and consumed
// internally by the sampler; it is never surfaced as an error. Numerical
// edge cases during likelihood evaluation likewise degrade to -Inf so
// the sampler can continue. Everything else (bad configuration, an
// initial position with zero posterior probability, cancellation) fails
// the fit loudly with no partial results.
package fit

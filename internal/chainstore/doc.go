// Package chainstore provides SQLite-based persistence for fit results.
// It stores one row per fit (fitted parameters, posterior summary, and
// run metadata) plus the full posterior chain, so past fits can be
// listed, compared, and re-summarized without re-running the sampler.
//
// The database lives in a single file (mbbfit.db) under a caller-chosen
// directory, typically the XDG data directory.
package chainstore

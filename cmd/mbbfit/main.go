// Package main provides the entry point for the mbbfit CLI.
//
// mbbfit fits modified blackbody spectral energy distributions to
// far-infrared photometry, calibrates model normalizations to target
// luminosities, and summarizes the resulting posterior distributions.
//
// Usage:
//
//	mbbfit calibrate --luminosity 12.5 --redshift 2.0
//	mbbfit fit --state mbb_state.txt photometry.txt
//
// See --help for all available options.
package main

// main is the entry point for mbbfit.
func main() {
	Execute()
}

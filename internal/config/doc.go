// Package config provides configuration structures and utilities for
// mbbfit. It defines the sampler, calibration, integration, and
// cosmology settings along with report output preferences.
package config

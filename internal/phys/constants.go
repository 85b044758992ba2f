package phys

// Physical constants used throughout the fitting engine.
// SI values follow CODATA 2018; the solar luminosity is the IAU 2015
// nominal value. Keeping these in one table (rather than scattering
// literals through the model code) makes the unit conventions auditable
// and gives tests a single source of truth.
const (
	// SpeedOfLight is the speed of light in vacuum [m/s].
	SpeedOfLight = 2.99792458e8

	// Planck is the Planck constant [J·s].
	Planck = 6.62607015e-34

	// Boltzmann is the Boltzmann constant [J/K].
	Boltzmann = 1.380649e-23

	// SolarLuminosity is the IAU nominal solar luminosity [W].
	SolarLuminosity = 3.828e26

	// Megaparsec is one megaparsec [m].
	Megaparsec = 3.0856775814913673e22

	// Jansky is one jansky [W/m²/Hz].
	Jansky = 1e-26

	// Micron is one micrometre [m].
	Micron = 1e-6
)

// FrequencyFromMicron converts a wavelength in microns to frequency in Hz.
func FrequencyFromMicron(wavelength float64) float64 {
	return SpeedOfLight / (wavelength * Micron)
}

// MicronFromFrequency converts a frequency in Hz to wavelength in microns.
func MicronFromFrequency(nu float64) float64 {
	return SpeedOfLight / nu / Micron
}

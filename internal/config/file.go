package config

// File represents the `.mbbfit` YAML configuration file.
// The file is sectioned for readability; Apply flattens the sections
// into the flat Config struct. Every field is optional: zero values are
// treated as "not set" and leave the corresponding Config field alone.
type File struct {
	// Sampler holds ensemble-sampler settings.
	Sampler SamplerSection `yaml:"sampler"`

	// Calibration holds normalization-calibration settings.
	Calibration CalibrationSection `yaml:"calibration"`

	// Band holds the luminosity integration band.
	Band BandSection `yaml:"band"`

	// Model holds spectral-model settings.
	Model ModelSection `yaml:"model"`

	// Cosmology holds the flat ΛCDM parameters.
	Cosmology CosmologySection `yaml:"cosmology"`
}

// SamplerSection mirrors the sampler fields of Config.
type SamplerSection struct {
	Walkers         int     `yaml:"walkers"`
	BurnSteps       int     `yaml:"burn_steps"`
	ProductionSteps int     `yaml:"production_steps"`
	JitterScale     float64 `yaml:"jitter_scale"`
	Workers         int     `yaml:"workers"`
	Seed            uint64  `yaml:"seed"`
}

// CalibrationSection mirrors the calibration fields of Config.
type CalibrationSection struct {
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
	InitialGuess  float64 `yaml:"initial_guess"`
}

// BandSection mirrors the integration-band fields of Config.
// Bounds are rest-frame wavelengths in microns.
type BandSection struct {
	LowMicron  float64 `yaml:"low_um"`
	HighMicron float64 `yaml:"high_um"`
	GridPoints int     `yaml:"grid_points"`
}

// ModelSection mirrors the spectral-model fields of Config.
type ModelSection struct {
	BlendMicron float64 `yaml:"blend_um"`
}

// CosmologySection mirrors the cosmology fields of Config.
type CosmologySection struct {
	HubbleConstant float64 `yaml:"hubble_constant"`
	OmegaMatter    float64 `yaml:"omega_matter"`
}

// Apply merges the file's set fields into cfg. CLI flags are parsed
// after Apply runs, so explicit flags always win over the file.
func (f *File) Apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Sampler.Walkers != 0 {
		cfg.Walkers = f.Sampler.Walkers
	}
	if f.Sampler.BurnSteps != 0 {
		cfg.BurnSteps = f.Sampler.BurnSteps
	}
	if f.Sampler.ProductionSteps != 0 {
		cfg.ProductionSteps = f.Sampler.ProductionSteps
	}
	if f.Sampler.JitterScale != 0 {
		cfg.JitterScale = f.Sampler.JitterScale
	}
	if f.Sampler.Workers != 0 {
		cfg.Workers = f.Sampler.Workers
	}
	if f.Sampler.Seed != 0 {
		cfg.Seed = f.Sampler.Seed
	}
	if f.Calibration.Tolerance != 0 {
		cfg.Tolerance = f.Calibration.Tolerance
	}
	if f.Calibration.MaxIterations != 0 {
		cfg.MaxIterations = f.Calibration.MaxIterations
	}
	if f.Calibration.InitialGuess != 0 {
		cfg.InitialGuess = f.Calibration.InitialGuess
	}
	if f.Band.LowMicron != 0 {
		cfg.BandLow = f.Band.LowMicron
	}
	if f.Band.HighMicron != 0 {
		cfg.BandHigh = f.Band.HighMicron
	}
	if f.Band.GridPoints != 0 {
		cfg.GridPoints = f.Band.GridPoints
	}
	if f.Model.BlendMicron != 0 {
		cfg.BlendWavelength = f.Model.BlendMicron
	}
	if f.Cosmology.HubbleConstant != 0 {
		cfg.HubbleConstant = f.Cosmology.HubbleConstant
	}
	if f.Cosmology.OmegaMatter != 0 {
		cfg.OmegaMatter = f.Cosmology.OmegaMatter
	}
}

package mbb

import "fmt"

// Photometry holds rest-frame photometric measurements as three aligned
// sequences: wavelength [µm], flux density [Jy], and flux uncertainty
// [Jy]. Construct with NewPhotometry, which validates and filters the
// input; a zero-value Photometry is empty and unusable for fitting.
type Photometry struct {
	// Wavelength is the rest-frame wavelength of each point [µm].
	Wavelength []float64

	// Flux is the flux density of each point [Jy].
	Flux []float64

	// Err is the flux uncertainty of each point [Jy], strictly positive.
	Err []float64
}

// NewPhotometry validates and assembles photometry from three aligned
// sequences. Points with a negative wavelength, flux, or uncertainty are
// treated as non-detections or sentinel entries and excluded, matching
// the masking convention of the upstream catalogs this tool consumes.
//
// A zero uncertainty on an otherwise valid point is rejected outright
// rather than silently substituted: it would produce an infinite χ² term
// and the intended behavior is unspecified, so strict upfront validation
// wins. Mismatched lengths or zero usable surviving points are also
// rejected. Errors wrap ErrInvalidPhotometry.
func NewPhotometry(wavelength, flux, fluxErr []float64) (Photometry, error) {
	if len(wavelength) != len(flux) || len(flux) != len(fluxErr) {
		return Photometry{}, fmt.Errorf("%w: mismatched lengths (wavelength=%d flux=%d err=%d)",
			ErrInvalidPhotometry, len(wavelength), len(flux), len(fluxErr))
	}

	p := Photometry{
		Wavelength: make([]float64, 0, len(wavelength)),
		Flux:       make([]float64, 0, len(flux)),
		Err:        make([]float64, 0, len(fluxErr)),
	}
	for i := range wavelength {
		// Negative entries mark non-detections; drop them silently.
		if wavelength[i] < 0 || flux[i] < 0 || fluxErr[i] < 0 {
			continue
		}
		if wavelength[i] == 0 {
			return Photometry{}, fmt.Errorf("%w: zero wavelength at point %d", ErrInvalidPhotometry, i)
		}
		if fluxErr[i] == 0 {
			return Photometry{}, fmt.Errorf("%w: zero flux uncertainty at point %d (wavelength %g µm)",
				ErrInvalidPhotometry, i, wavelength[i])
		}
		p.Wavelength = append(p.Wavelength, wavelength[i])
		p.Flux = append(p.Flux, flux[i])
		p.Err = append(p.Err, fluxErr[i])
	}

	if p.Len() == 0 {
		return Photometry{}, fmt.Errorf("%w: no usable points after filtering", ErrInvalidPhotometry)
	}
	return p, nil
}

// Len returns the number of usable photometric points.
func (p Photometry) Len() int { return len(p.Wavelength) }

// FitsEmissivity reports whether there are enough points to fit the
// emissivity index β as a free parameter. With fewer than three points
// the fit dimension drops to two and β stays fixed at its current value.
func (p Photometry) FitsEmissivity() bool { return p.Len() >= 3 }

package mbb

import "fmt"

// Variant identifies one of the four closed model variants:
// {optically thin, general opacity} × {greybody, greybody + power law}.
// The variant is fixed at model construction and never branched on by
// callers; the model selects the matching evaluation strategy once.
//
// Design decision: iota-based constants rather than a pair of booleans.
// The persisted state format still speaks booleans (opthin/pl columns),
// so VariantFromFlags and the OpticallyThin/PowerLaw accessors bridge
// the two representations.
type Variant int

const (
	// OpticallyThinGreybody is the τ ≪ 1 limiting form,
	// flux ∝ N·(ν/ν₀)^β·B_ν(T). Cheaper, slightly biased at short
	// wavelengths.
	OpticallyThinGreybody Variant = iota

	// GeneralOpacityGreybody is the full opacity form,
	// flux ∝ N·(1 - e^(-τ))·B_ν(T), valid for all τ.
	GeneralOpacityGreybody

	// OpticallyThinPowerLaw joins a mid-infrared power law to the
	// optically thin greybody at the blend wavelength.
	OpticallyThinPowerLaw

	// GeneralOpacityPowerLaw joins a mid-infrared power law to the
	// general opacity greybody at the blend wavelength.
	GeneralOpacityPowerLaw
)

// String returns a stable, human-readable variant name. These names are
// also the accepted ParseVariant spellings and appear in reports and the
// chain store.
func (v Variant) String() string {
	switch v {
	case OpticallyThinGreybody:
		return "optically-thin"
	case GeneralOpacityGreybody:
		return "general-opacity"
	case OpticallyThinPowerLaw:
		return "optically-thin+power-law"
	case GeneralOpacityPowerLaw:
		return "general-opacity+power-law"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// OpticallyThin reports whether the variant uses the optically thin
// greybody form.
func (v Variant) OpticallyThin() bool {
	return v == OpticallyThinGreybody || v == OpticallyThinPowerLaw
}

// PowerLaw reports whether the variant carries the short-wavelength
// power-law segment.
func (v Variant) PowerLaw() bool {
	return v == OpticallyThinPowerLaw || v == GeneralOpacityPowerLaw
}

// Valid reports whether v is one of the four defined variants.
func (v Variant) Valid() bool {
	return v >= OpticallyThinGreybody && v <= GeneralOpacityPowerLaw
}

// VariantFromFlags maps the persisted boolean pair to a Variant.
func VariantFromFlags(opticallyThin, powerLaw bool) Variant {
	switch {
	case opticallyThin && powerLaw:
		return OpticallyThinPowerLaw
	case opticallyThin:
		return OpticallyThinGreybody
	case powerLaw:
		return GeneralOpacityPowerLaw
	default:
		return GeneralOpacityGreybody
	}
}

// ParseVariant converts a variant name (as produced by String) back to a
// Variant. It returns ErrUnsupportedVariant for unknown names.
func ParseVariant(s string) (Variant, error) {
	for _, v := range []Variant{
		OpticallyThinGreybody,
		GeneralOpacityGreybody,
		OpticallyThinPowerLaw,
		GeneralOpacityPowerLaw,
	} {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedVariant, s)
}

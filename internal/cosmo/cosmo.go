package cosmo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/sedfit/mbbfit/internal/phys"
)

// Default cosmological parameters. These match the fiducial flat ΛCDM
// cosmology used when deriving infrared luminosities in the survey
// literature this tool targets (H0 = 70 km/s/Mpc, Ωm = 0.30).
const (
	// DefaultH0 is the Hubble constant [km/s/Mpc].
	DefaultH0 = 70.0

	// DefaultOmegaM is the present-day matter density parameter.
	// The dark-energy density is 1 - Ωm (flatness is assumed).
	DefaultOmegaM = 0.30

	// quadraturePoints is the Gauss-Legendre node count for the comoving
	// distance integral. The integrand is smooth, so 64 nodes give far
	// better than the 1e-3 dex accuracy the calibration loop needs.
	quadraturePoints = 64
)

// Distancer is the contract the luminosity integrator depends on.
// Implementations must be monotone non-decreasing in redshift and
// return a non-negative distance in megaparsecs.
type Distancer interface {
	// LuminosityDistance returns the luminosity distance [Mpc] to an
	// object at the given redshift. z must be non-negative.
	LuminosityDistance(z float64) (float64, error)
}

// FlatLambdaCDM is a flat ΛCDM cosmology. The zero value is not usable;
// construct with New or NewDefault.
type FlatLambdaCDM struct {
	// h0 is the Hubble constant [km/s/Mpc].
	h0 float64

	// omegaM is the matter density parameter; omegaL = 1 - omegaM.
	omegaM float64
}

// New creates a flat ΛCDM cosmology with the given Hubble constant
// [km/s/Mpc] and matter density parameter.
func New(h0, omegaM float64) (*FlatLambdaCDM, error) {
	if h0 <= 0 {
		return nil, fmt.Errorf("cosmo: H0 must be positive, got %g", h0)
	}
	if omegaM <= 0 || omegaM >= 1 {
		return nil, fmt.Errorf("cosmo: OmegaM must be in (0, 1), got %g", omegaM)
	}
	return &FlatLambdaCDM{h0: h0, omegaM: omegaM}, nil
}

// NewDefault creates the fiducial H0=70, Ωm=0.30 cosmology.
func NewDefault() *FlatLambdaCDM {
	c, err := New(DefaultH0, DefaultOmegaM)
	if err != nil {
		// Unreachable: the defaults are valid by construction.
		panic(err)
	}
	return c
}

// H0 returns the Hubble constant [km/s/Mpc].
func (c *FlatLambdaCDM) H0() float64 { return c.h0 }

// OmegaM returns the matter density parameter.
func (c *FlatLambdaCDM) OmegaM() float64 { return c.omegaM }

// hubbleDistance returns c/H0 in megaparsecs.
func (c *FlatLambdaCDM) hubbleDistance() float64 {
	return phys.SpeedOfLight / 1000.0 / c.h0
}

// efunc is the dimensionless Hubble parameter E(z) = H(z)/H0 for a flat
// universe: sqrt(Ωm(1+z)³ + ΩΛ).
func (c *FlatLambdaCDM) efunc(z float64) float64 {
	zp1 := 1 + z
	return math.Sqrt(c.omegaM*zp1*zp1*zp1 + (1 - c.omegaM))
}

// ComovingDistance returns the line-of-sight comoving distance [Mpc]
// to redshift z.
func (c *FlatLambdaCDM) ComovingDistance(z float64) (float64, error) {
	if z < 0 {
		return 0, fmt.Errorf("cosmo: redshift must be non-negative, got %g", z)
	}
	if z == 0 {
		return 0, nil
	}
	integral := quad.Fixed(func(zp float64) float64 {
		return 1 / c.efunc(zp)
	}, 0, z, quadraturePoints, nil, 0)
	return c.hubbleDistance() * integral, nil
}

// LuminosityDistance returns the luminosity distance [Mpc] to redshift z.
// In a flat universe D_L = (1+z)·D_C. The result is monotone
// non-decreasing in z and exactly zero at z = 0.
func (c *FlatLambdaCDM) LuminosityDistance(z float64) (float64, error) {
	dc, err := c.ComovingDistance(z)
	if err != nil {
		return 0, err
	}
	return (1 + z) * dc, nil
}

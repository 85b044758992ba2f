// Package cosmo implements the cosmology collaborator: luminosity
// distances in a flat ΛCDM universe. The fitting engine only ever needs
// luminosity_distance(z), so that is the whole exported surface.
package cosmo

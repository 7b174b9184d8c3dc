// Package geometry builds the schematic ray diagram of the optical bench.
//
// The bench is laser → thin lens → slit → screen along one axis. [Trace]
// produces a handful of representative rays: parallel from the laser
// aperture, bent at the lens by the thin-lens magnification, then straight
// through the slit plane to the screen. It is an illustration, not an exact
// ray trace.
//
// Positions along the axis are diagram units; [Layout.UnitLength] converts
// them to metres for the lens equation. Transverse offsets are metres scaled
// by [Layout.BeamScale] so a 2 mm beam stays visible on a 600-unit bench.
package geometry

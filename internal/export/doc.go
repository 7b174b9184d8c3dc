// Package export writes bench snapshots in formats other tools can read:
// CSV and JSON for the numbers, SVG for the ray diagram, curve and screen
// pattern, and a standalone HTML chart of the intensity curve.
package export

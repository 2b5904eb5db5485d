// Package stability predicts mechanical print failures (detached walls,
// curling bridges, toppling and poor bed adhesion) from a print's planned
// toolpaths, and emits corrective support-point hints.
//
// The analysis runs offline, once per print, layer by layer in increasing
// z order. Each layer's extrusion paths are segmented into short directed
// lines, walked against the previous layer's segment index for local
// bridging and malformation issues, partitioned into islands whose overlap
// with the layer below is estimated by rasterization, and finally folded
// into persistent object parts whose torque balance decides whether global
// supports are needed.
//
// Entry point: Analyze. The analysis never fails on pathological
// geometry; every ambiguity resolves to a deterministic fallback and the
// worst observable outcome is a geometrically suboptimal support list.
package stability

// Package analysis inspects the displacement history of a run.
//
//   - [PowerSpectrum]: one-sided amplitude spectrum of a node history
//   - [DominantFrequency]: strongest non-zero frequency in Hz
//   - [NewPhasePortrait]: displacement against finite-difference speed
//
// A free element oscillates at its lowest axial eigenfrequency; with
// friction the spectrum shows how fast the motion is damped out:
//
//	node, _ := result.Node(0)
//	f, _ := analysis.DominantFrequency(node, dt)
package analysis

package integrator

import "github.com/beamtracer/beam/internal/vec"

// HeuristicMode selects which MIS weighting function CombinePDFs applies
// when both direct-light and BSDF sampling contribute to a hit.
type HeuristicMode int

const (
	// Power is the squared (β=2) power heuristic; it is the teacher's
	// literal default and beam's default too.
	Power HeuristicMode = iota
	Balance
)

// PowerHeuristic is Veach's power heuristic with β=2: (nf·fPdf)² /
// ((nf·fPdf)² + (ng·gPdf)²).
func PowerHeuristic(nf int, fPdf vec.Scalar, ng int, gPdf vec.Scalar) vec.Scalar {
	if fPdf <= 0 {
		return 0
	}
	f := vec.Scalar(nf) * fPdf
	g := vec.Scalar(ng) * gPdf
	return (f * f) / (f*f + g*g)
}

// BalanceHeuristic is Veach's balance heuristic: nf·fPdf / (nf·fPdf + ng·gPdf).
func BalanceHeuristic(nf int, fPdf vec.Scalar, ng int, gPdf vec.Scalar) vec.Scalar {
	if fPdf <= 0 {
		return 0
	}
	f := vec.Scalar(nf) * fPdf
	g := vec.Scalar(ng) * gPdf
	return f / (f + g)
}

// CombinePDFs returns the MIS weight for a sample drawn from the strategy
// with PDF sampledPdf, given the other strategy's PDF otherPdf, under mode.
func CombinePDFs(sampledPdf, otherPdf vec.Scalar, mode HeuristicMode) vec.Scalar {
	if mode == Balance {
		return BalanceHeuristic(1, sampledPdf, 1, otherPdf)
	}
	return PowerHeuristic(1, sampledPdf, 1, otherPdf)
}

package ml

import (
	"fmt"
	"math"
)

// logistic is a compiled logistic regression over encoded columns. Columns
// without a coefficient contribute nothing.
type logistic struct {
	weights   []float64
	intercept float64
}

func compileLogistic(spec *LogisticSpec, enc *encoder) (*logistic, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: logistic regression has no parameters", ErrArtifact)
	}

	l := &logistic{weights: make([]float64, enc.width()), intercept: spec.Intercept}
	for name, w := range spec.Coefficients {
		col, ok := enc.column(name)
		if !ok {
			return nil, fmt.Errorf("%w: coefficient for unknown column %q", ErrArtifact, name)
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: coefficient for %q is not finite", ErrArtifact, name)
		}
		l.weights[col] = w
	}
	if math.IsNaN(l.intercept) || math.IsInf(l.intercept, 0) {
		return nil, fmt.Errorf("%w: intercept is not finite", ErrArtifact)
	}

	return l, nil
}

func (l *logistic) fraudProbability(x []float64) float64 {
	z := l.intercept
	for i, w := range l.weights {
		z += w * x[i]
	}
	return sigmoid(z)
}

func (l *logistic) describe() string {
	nonZero := 0
	for _, w := range l.weights {
		if w != 0 {
			nonZero++
		}
	}
	return fmt.Sprintf("%d coefficients", nonZero)
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

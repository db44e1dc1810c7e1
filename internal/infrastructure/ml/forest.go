package ml

import (
	"fmt"
	"math"
)

// forest is a compiled random forest. Each leaf stores its normalized fraud
// probability; the ensemble probability is the mean over trees.
type forest struct {
	trees []tree
}

type tree struct {
	nodes []node
}

type node struct {
	column    int
	threshold float64
	left      int
	right     int
	proba     float64
	leaf      bool
}

func compileForest(spec *ForestSpec, enc *encoder) (*forest, error) {
	if spec == nil || len(spec.Trees) == 0 {
		return nil, fmt.Errorf("%w: random forest has no trees", ErrArtifact)
	}

	f := &forest{trees: make([]tree, 0, len(spec.Trees))}
	for ti, ts := range spec.Trees {
		t, err := compileTree(ts, enc)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", ti, err)
		}
		f.trees = append(f.trees, t)
	}
	return f, nil
}

func compileTree(spec TreeSpec, enc *encoder) (tree, error) {
	if len(spec.Nodes) == 0 {
		return tree{}, fmt.Errorf("%w: empty tree", ErrArtifact)
	}

	nodes := make([]node, len(spec.Nodes))
	for i, ns := range spec.Nodes {
		if ns.IsLeaf() {
			p, err := leafProbability(ns.Value)
			if err != nil {
				return tree{}, fmt.Errorf("node %d: %w", i, err)
			}
			nodes[i] = node{leaf: true, proba: p}
			continue
		}

		col, ok := enc.column(ns.Feature)
		if !ok {
			return tree{}, fmt.Errorf("%w: node %d splits on unknown column %q", ErrArtifact, i, ns.Feature)
		}
		// Children always sit after their parent, which rules out cycles.
		if ns.Left <= i || ns.Left >= len(spec.Nodes) || ns.Right <= i || ns.Right >= len(spec.Nodes) {
			return tree{}, fmt.Errorf("%w: node %d has invalid children %d/%d", ErrArtifact, i, ns.Left, ns.Right)
		}
		if math.IsNaN(ns.Threshold) {
			return tree{}, fmt.Errorf("%w: node %d has NaN threshold", ErrArtifact, i)
		}
		nodes[i] = node{column: col, threshold: ns.Threshold, left: ns.Left, right: ns.Right}
	}

	return tree{nodes: nodes}, nil
}

func leafProbability(value []float64) (float64, error) {
	if len(value) != 2 {
		return 0, fmt.Errorf("%w: leaf needs 2 class weights, got %d", ErrArtifact, len(value))
	}
	legit, fraud := value[0], value[1]
	if legit < 0 || fraud < 0 || legit+fraud <= 0 {
		return 0, fmt.Errorf("%w: leaf class weights %v are not a distribution", ErrArtifact, value)
	}
	return fraud / (legit + fraud), nil
}

func (t tree) fraudProbability(x []float64) float64 {
	i := 0
	for {
		n := t.nodes[i]
		if n.leaf {
			return n.proba
		}
		if x[n.column] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
}

func (f *forest) fraudProbability(x []float64) float64 {
	sum := 0.0
	for _, t := range f.trees {
		sum += t.fraudProbability(x)
	}
	return sum / float64(len(f.trees))
}

func (f *forest) describe() string {
	return fmt.Sprintf("%d trees", len(f.trees))
}

package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/bibbank/fraud-predictor/internal/domain/model"
)

// ArtifactFormat is the only artifact format this package understands.
const ArtifactFormat = "fraud-classifier/v1"

// Supported model kinds.
const (
	KindRandomForest       = "random_forest"
	KindLogisticRegression = "logistic_regression"
)

var (
	// ErrArtifact reports a classifier artifact that is missing, unreadable or
	// structurally invalid.
	ErrArtifact = errors.New("invalid classifier artifact")

	// ErrSchemaMismatch reports an artifact trained on a different column set
	// or column order than FeatureRecord produces.
	ErrSchemaMismatch = errors.New("classifier schema mismatch")
)

// Artifact is the serialized, pre-trained classifier.
type Artifact struct {
	Forest   *ForestSpec            `json:"forest,omitempty"`
	Logistic *LogisticSpec          `json:"logistic,omitempty"`
	Encoders map[string]EncoderSpec `json:"encoders"`
	Format   string                 `json:"format"`
	Kind     string                 `json:"kind"`
	Version  string                 `json:"version"`
	Features []string               `json:"features"`
}

// EncoderSpec lists the one-hot categories of a categorical column.
type EncoderSpec struct {
	Categories []string `json:"categories"`
}

// ForestSpec is an ensemble of decision trees whose fraud probabilities are averaged.
type ForestSpec struct {
	Trees []TreeSpec `json:"trees"`
}

// TreeSpec is a decision tree stored as a node array rooted at index 0.
type TreeSpec struct {
	Nodes []NodeSpec `json:"nodes"`
}

// NodeSpec is either a split (Feature set) or a leaf (Value set). A split sends
// a row left when its column is <= Threshold.
type NodeSpec struct {
	Feature   string    `json:"feature,omitempty"`
	Value     []float64 `json:"value,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      int       `json:"left,omitempty"`
	Right     int       `json:"right,omitempty"`
}

// IsLeaf reports whether the node is a leaf.
func (n NodeSpec) IsLeaf() bool {
	return n.Feature == ""
}

// LogisticSpec is a logistic regression over encoded columns.
type LogisticSpec struct {
	Coefficients map[string]float64 `json:"coefficients"`
	Intercept    float64            `json:"intercept"`
}

// ParseArtifact decodes an artifact document without validating it.
func ParseArtifact(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrArtifact, err)
	}
	return &a, nil
}

// CheckSchema verifies the artifact was trained on exactly the FeatureRecord
// columns, in order, with encoders on the categorical columns only.
func (a *Artifact) CheckSchema() error {
	expected := model.FeatureSchemaNames()
	if len(a.Features) != len(expected) {
		return fmt.Errorf("%w: artifact has %d features, expected %d", ErrSchemaMismatch, len(a.Features), len(expected))
	}
	for i, name := range expected {
		if a.Features[i] != name {
			return fmt.Errorf("%w: feature %d is %q, expected %q", ErrSchemaMismatch, i, a.Features[i], name)
		}
	}

	for _, f := range model.FeatureSchema() {
		spec, ok := a.Encoders[f.Name]
		switch {
		case f.Kind == model.FieldCategorical && !ok:
			return fmt.Errorf("%w: categorical feature %q has no encoder", ErrSchemaMismatch, f.Name)
		case f.Kind == model.FieldNumeric && ok:
			return fmt.Errorf("%w: numeric feature %q has an encoder", ErrSchemaMismatch, f.Name)
		case ok && len(spec.Categories) == 0:
			return fmt.Errorf("%w: encoder for %q has no categories", ErrSchemaMismatch, f.Name)
		}
	}
	for name := range a.Encoders {
		if !slices.Contains(expected, name) {
			return fmt.Errorf("%w: encoder for unknown feature %q", ErrSchemaMismatch, name)
		}
	}

	return nil
}

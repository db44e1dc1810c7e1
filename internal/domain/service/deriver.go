package service

import "github.com/bibbank/fraud-predictor/internal/domain/model"

// Deriver defines the interface for feature derivation strategies.
type Deriver interface {
	Derive(in model.TransactionInput) model.FeatureRecord
}

var _ Deriver = (*FeatureDeriver)(nil)

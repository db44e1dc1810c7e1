package usecase

import (
	"context"

	"github.com/bibbank/fraud-predictor/internal/application/dto"
	"github.com/bibbank/fraud-predictor/internal/domain/service"
)

// DeriveFeatures is the use case for computing the feature record of a
// transaction without consulting the classifier.
type DeriveFeatures struct {
	deriver   service.Deriver
	validator *dto.Validator
}

// NewDeriveFeatures creates a new DeriveFeatures use case.
func NewDeriveFeatures(deriver service.Deriver, validator *dto.Validator) *DeriveFeatures {
	return &DeriveFeatures{
		deriver:   deriver,
		validator: validator,
	}
}

// Execute validates the request and returns the derived features.
func (uc *DeriveFeatures) Execute(_ context.Context, req dto.TransactionRequest) (dto.FeaturesResponse, error) {
	input, err := uc.validator.Input(req)
	if err != nil {
		return dto.FeaturesResponse{}, err
	}

	return dto.FromRecord(uc.deriver.Derive(input)), nil
}

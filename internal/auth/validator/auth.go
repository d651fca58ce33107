package validator

import (
	"assetshare/pkg/logger"
	"assetshare/pkg/model"
	"assetshare/pkg/validation"
)

type AuthValidator struct {
	validate *validation.Validator
	logger   *logger.Logger
}

func NewAuthValidator(v *validation.Validator, log *logger.Logger) *AuthValidator {
	return &AuthValidator{validate: v, logger: log}
}

func (v *AuthValidator) ValidateLogin(req *model.LoginRequest) error {
	return v.validate.Struct(req)
}

func (v *AuthValidator) ValidateRegister(req *model.RegisterRequest) error {
	return v.validate.Struct(req)
}

func (v *AuthValidator) ValidateProfile(update *model.ProfileUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		return err
	}

	if update.BusinessName == nil && update.Phone == nil && update.Location == nil &&
		update.ProductionFocus == nil && update.Certifications == nil && update.Needs == nil {
		return validation.ValidationErrors{
			validation.ValidationError{
				Field:   "profile",
				Message: "at least one field must be provided",
			},
		}
	}

	return nil
}

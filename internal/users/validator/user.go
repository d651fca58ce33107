package validator

import (
	"assetshare/pkg/logger"
	"assetshare/pkg/model"
	"assetshare/pkg/validation"
)

type UserValidator struct {
	validate *validation.Validator
	logger   *logger.Logger
}

func NewUserValidator(v *validation.Validator, log *logger.Logger) *UserValidator {
	return &UserValidator{validate: v, logger: log}
}

func (v *UserValidator) ValidateStatus(update *model.UserStatusUpdate) error {
	return v.validate.Struct(update)
}

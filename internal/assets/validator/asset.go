package validator

import (
	"fmt"
	"strings"

	"assetshare/pkg/logger"
	"assetshare/pkg/model"
	"assetshare/pkg/validation"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxImageSize applies when no positive image limit is configured.
const DefaultMaxImageSize = 5 << 20

type AssetValidator struct {
	validate     *validation.Validator
	maxImageSize int
	logger       *logger.Logger
}

func NewAssetValidator(v *validation.Validator, maxImageSize int, log *logger.Logger) *AssetValidator {
	if maxImageSize <= 0 {
		maxImageSize = DefaultMaxImageSize
	}
	return &AssetValidator{validate: v, maxImageSize: maxImageSize, logger: log}
}

// MaxImageSize is the largest image accepted for upload, in bytes.
func (v *AssetValidator) MaxImageSize() int {
	return v.maxImageSize
}

func (v *AssetValidator) Validate(asset *model.AssetCreate) error {
	if err := v.validate.Struct(asset); err != nil {
		return err
	}
	return v.validateQuantity(asset.TotalQuantity)
}

func (v *AssetValidator) ValidateUpdate(update *model.AssetUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		return err
	}
	return v.validateQuantity(update.TotalQuantity)
}

func (v *AssetValidator) validateQuantity(q *int) error {
	if q != nil && *q < 1 {
		return validation.ValidationErrors{
			validation.ValidationError{
				Field:   "total_quantity",
				Message: "total_quantity must be at least 1",
			},
		}
	}
	return nil
}

// ValidateImage checks an upload by its content, not its file name.
func (v *AssetValidator) ValidateImage(content []byte) error {
	if len(content) == 0 {
		return validation.ValidationErrors{
			validation.ValidationError{Field: "file", Message: "file is empty"},
		}
	}
	if len(content) > v.maxImageSize {
		return validation.ValidationErrors{
			validation.ValidationError{Field: "file", Message: fmt.Sprintf("Image size should be less than %s", humanSize(v.maxImageSize))},
		}
	}
	mtype := mimetype.Detect(content)
	if !strings.HasPrefix(mtype.String(), "image/") {
		v.logger.Warn("Rejected non-image upload", "mime", mtype.String())
		return validation.ValidationErrors{
			validation.ValidationError{Field: "file", Message: "Please upload an image file"},
		}
	}
	return nil
}

func humanSize(n int) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	if n >= 1<<10 && n%(1<<10) == 0 {
		return fmt.Sprintf("%dKB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}

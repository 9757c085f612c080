package validator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
)

const maxStatusLength = 50

// Image formats the logo pipeline can decode
var logoExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates struct tags for any request
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateJobRequest checks the posting form, including the resolved type
func (bv *BusinessValidator) ValidateJobRequest(req *JobRequest) ValidationErrors {
	var errs ValidationErrors

	errs = append(errs, bv.Validate(req)...)

	if req.CustomType != nil && strings.TrimSpace(*req.CustomType) != "" && req.Type != models.JobTypeOther {
		errs = append(errs, ValidationError{
			Field:   "custom_type",
			Message: "custom type is only accepted with type Other",
			Value:   *req.CustomType,
			Rule:    "business_logic",
		})
	}

	return errs
}

// ValidateUpload checks an uploaded file's size and, for logos, its format
func (bv *BusinessValidator) ValidateUpload(field, fileName string, size, maxSize int64, image bool) ValidationErrors {
	var errs ValidationErrors

	if maxSize > 0 && size > maxSize {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("file exceeds %d bytes", maxSize),
			Value:   size,
			Rule:    "max_size",
		})
	}

	if image && !logoExtensions[strings.ToLower(filepath.Ext(fileName))] {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: "logo must be a PNG, JPEG or GIF image",
			Value:   fileName,
			Rule:    "image_format",
		})
	}

	return errs
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	bv.validate.RegisterValidation("job_type", func(fl validator.FieldLevel) bool {
		return models.JobType(fl.Field().String()).IsStandard()
	})

	// statuses are free text, Pending/Accepted/Rejected are only the usual values
	bv.validate.RegisterValidation("application_status", func(fl validator.FieldLevel) bool {
		status := strings.TrimSpace(fl.Field().String())
		return status != "" && len(status) <= maxStatusLength
	})
}

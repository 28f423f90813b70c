package service

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/internal/repository"
	"github.com/noah-isme/elite-academy-api/pkg/database"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

func defaultValidator(v *validator.Validate) *validator.Validate {
	if v == nil {
		return dto.NewValidator()
	}
	return v
}

func validate(v *validator.Validate, req interface{}) error {
	if err := v.Struct(req); err != nil {
		return appErrors.Validation(err, "")
	}
	return nil
}

// storeError maps repository failures onto API errors. action describes the
// attempted operation for the opaque internal case.
func storeError(err error, entity, action string) error {
	var appErr *appErrors.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	case errors.Is(err, repository.ErrInvalidReference):
		field := strings.TrimSuffix(strings.SplitN(err.Error(), ":", 2)[0], "_id")
		return appErrors.Field(field, "references a missing or ineligible record")
	case database.IsUniqueViolation(err):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, entity+" already exists")
	case database.IsForeignKeyViolation(err):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "referenced record does not exist")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to "+action)
}

func parseDate(field, raw string) (models.Date, error) {
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, appErrors.Field(field, "must match format 2006-01-02")
	}
	return d, nil
}

func forbidden(message string) error {
	return appErrors.Clone(appErrors.ErrForbidden, message)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/chefbotpro/backend/internal/model"
)

// PlanValidator checks an assembled plan against its expected shape
type PlanValidator struct {
	validate *validator.Validate
}

// NewPlanValidator creates a validator reading the `validate` struct tags
func NewPlanValidator() *PlanValidator {
	return &PlanValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate returns nil when plan is well formed. Otherwise the error lists every
// failing field.
func (v *PlanValidator) Validate(plan model.WeeklyDietPlan) error {
	err := v.validate.Struct(plan)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("plan validation failed: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("plan validation failed: %s", strings.Join(msgs, "; "))
}

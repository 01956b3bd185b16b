package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/coupon-directory-analytics/internal/model"
)

// New creates a new validator instance with the analytics rules registered.
// This ensures consistent validation across the application and tests.
func New() *validator.Validate {
	v := validator.New()

	// "targettype" accepts only trackable entity types (Store, Coupon)
	_ = v.RegisterValidation("targettype", func(fl validator.FieldLevel) bool {
		return model.TargetType(fl.Field().String()).Valid()
	})

	// "trackaction" accepts only view or action
	_ = v.RegisterValidation("trackaction", func(fl validator.FieldLevel) bool {
		return model.ActionType(fl.Field().String()).Valid()
	})

	return v
}

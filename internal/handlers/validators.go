package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"crmdesk/internal/models"
	"crmdesk/internal/services"
)

// RegisterValidators adds the enum tags used in request bodies to gin's
// validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return registerEnumValidators(v)
}

func registerEnumValidators(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"customer_status": func(fl validator.FieldLevel) bool {
			return models.CustomerStatus(fl.Field().String()).Valid()
		},
		"customer_priority": func(fl validator.FieldLevel) bool {
			return models.CustomerPriority(fl.Field().String()).Valid()
		},
		"interaction_type": func(fl validator.FieldLevel) bool {
			return models.InteractionType(fl.Field().String()).Valid()
		},
		"lead_status": func(fl validator.FieldLevel) bool {
			return services.LeadStatuses[models.LeadStatus(fl.Field().String())]
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/petmily/vetcare-api/internal/model"
)

// Custom binding validators for enum-valued request fields. Services
// re-check these values; registering them here rejects obviously bad
// payloads before a handler runs.
func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return model.ValidRole(fl.Field().String())
	})
	_ = v.RegisterValidation("reservationstatus", func(fl validator.FieldLevel) bool {
		return model.ValidReservationStatus(fl.Field().String())
	})
	_ = v.RegisterValidation("reportstatus", func(fl validator.FieldLevel) bool {
		return model.ValidReportStatus(fl.Field().String())
	})
}

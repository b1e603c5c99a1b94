package controller

import (
	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/service"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the quizstatus and theme binding rules to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("quizstatus", func(fl validator.FieldLevel) bool {
		return model.AttemptStatus(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
		return service.ValidTheme(fl.Field().String())
	})
}

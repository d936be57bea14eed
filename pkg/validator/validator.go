package validator

import (
	"fmt"
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/JuanJo0775/Veterinaria-sistema/internal/model"
)

// RegisterCustomValidators installs the binding rules used by request
// structs: "timeofday" for HH:MM strings and "datestring" for YYYY-MM-DD.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}

	if err := v.RegisterValidation("timeofday", validTimeOfDay); err != nil {
		return fmt.Errorf("failed to register timeofday rule: %w", err)
	}
	if err := v.RegisterValidation("datestring", validDateString); err != nil {
		return fmt.Errorf("failed to register datestring rule: %w", err)
	}
	return nil
}

func validTimeOfDay(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	_, err := model.ParseTimeOfDay(fl.Field().String())
	return err == nil
}

func validDateString(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	_, err := model.ParseDate(fl.Field().String())
	return err == nil
}

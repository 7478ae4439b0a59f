package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const requiredMessage = "this field is required."

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// validateStruct runs the struct's validate tags and collects failures into ve.
func validateStruct(ve *ValidationError, s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		ve.add(fe.Field(), fieldMessage(fe.Tag(), fe.Param(), fe.Kind()))
	}
	return nil
}

// validateVar checks a single value, recording a failure under field.
func validateVar(ve *ValidationError, field string, value interface{}, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		ve.add(field, fieldMessage(fe.Tag(), fe.Param(), fe.Kind()))
	}
	return nil
}

func fieldMessage(tag, param string, kind reflect.Kind) string {
	if kind == reflect.String {
		switch tag {
		case "min":
			return fmt.Sprintf("ensure this field has at least %s characters.", param)
		case "max":
			return fmt.Sprintf("ensure this field has no more than %s characters.", param)
		}
	}
	switch tag {
	case "required":
		return requiredMessage
	case "email":
		return "enter a valid email address."
	case "username":
		return "enter a valid username: letters, digits and @/./+/-/_ only."
	case "min":
		return fmt.Sprintf("ensure this value is greater than or equal to %s.", param)
	case "max":
		return fmt.Sprintf("ensure this value is less than or equal to %s.", param)
	default:
		return fmt.Sprintf("failed %s validation.", tag)
	}
}

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// ValidateRUC checks an Ecuadorian RUC: exactly 13 numeric digits.
// Messages are user-facing Spanish, surfaced as-is by handlers.
func ValidateRUC(ruc string) error {
	if ruc == "" {
		return errors.New("El RUC es requerido")
	}
	if !digitsOnly.MatchString(ruc) {
		return errors.New("El RUC solo puede contener dígitos")
	}
	if len(ruc) != 13 {
		return fmt.Errorf("El RUC debe tener 13 dígitos, tiene %d", len(ruc))
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report errors under the json field name so they line up with the
	// payload the frontend sent.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	v.RegisterValidation("ruc", func(fl validator.FieldLevel) bool {
		return ValidateRUC(fl.Field().String()) == nil
	})

	return v
}

// Struct validates s with the shared validator and returns per-field Spanish
// messages keyed by json field name. Returns nil when s is valid.
func Struct(s any) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": "Datos inválidos"}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo requerido"
	case "ruc":
		value, _ := fe.Value().(string)
		if err := ValidateRUC(value); err != nil {
			return err.Error()
		}
		return "RUC inválido"
	case "oneof":
		return "Valor no permitido"
	case "gt", "gte", "min":
		return "Debe ser un valor positivo"
	case "email":
		return "Correo inválido"
	default:
		return "Campo inválido"
	}
}

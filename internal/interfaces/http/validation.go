package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Presupuestos-api/internal/domain"
)

// validate revisa la forma de los cuerpos (tags `validate` de los DTO) antes de llegar a
// los casos de uso. Las reglas de negocio siguen en el dominio.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores nombran el campo como lo manda el cliente (tag json).
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodifica el cuerpo en dst y lo valida. Si el cuerpo no es JSON o tiene campos
// inválidos escribe la respuesta 400 y devuelve false junto con el error del write.
func parseBody(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, badBody(c)
	}
	if err := validateBody(dst); err != nil {
		return false, writeError(c, err)
	}
	return true, nil
}

// validateBody traduce validator.ValidationErrors a errores de validación del dominio,
// todos juntos (errors.Join), para que writeError los devuelva en un único 400.
func validateBody(body any) error {
	err := validate.Struct(body)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, domain.NewValidationError(fieldPath(fe), validationMessage(fe)))
	}
	return errors.Join(errs...)
}

// fieldPath "CreateQuoteRequest.lines[0].product_id" -> "lines[0].product_id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "no es un email válido"
	case "uuid":
		return "no es un identificador válido"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return "debe tener al menos " + fe.Param() + " caracteres"
		}
		return "debe ser como mínimo " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "admite como máximo " + fe.Param() + " caracteres"
		}
		return "debe ser como máximo " + fe.Param()
	default:
		return "es inválido"
	}
}

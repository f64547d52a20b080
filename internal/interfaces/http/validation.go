package http

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores usan el nombre json/query del campo.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		return name
	})
	return v
}

// fieldErrors errores de validación por campo (campo -> mensaje).
type fieldErrors struct {
	details map[string]string
}

func (e *fieldErrors) Error() string { return "error de validación" }

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	details := make(map[string]string, len(verrs))
	for _, e := range verrs {
		details[fieldPath(e)] = validationMessage(e)
	}
	return &fieldErrors{details: details}
}

// fieldPath quita el nombre del struct raíz: "DocumentRequest.lines[0].quantity" -> "lines[0].quantity".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	// campos embebidos (PageRequest) aparecen con su nombre de tipo
	return strings.TrimPrefix(ns, "PageRequest.")
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "campo requerido"
	case "email":
		return "email inválido"
	case "uuid":
		return "debe ser un UUID"
	case "datetime":
		return "fecha inválida, formato " + e.Param()
	case "oneof":
		return "debe ser uno de: " + e.Param()
	case "min":
		if e.Kind() == reflect.String {
			return "mínimo " + e.Param() + " caracteres"
		}
		if e.Kind() == reflect.Slice {
			return "mínimo " + e.Param() + " elementos"
		}
		return "debe ser al menos " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "máximo " + e.Param() + " caracteres"
		}
		return "debe ser como máximo " + e.Param()
	default:
		return "valor inválido"
	}
}

// bindBody parsea el JSON del body y lo valida.
func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &fieldErrors{details: map[string]string{"body": "cuerpo inválido: " + err.Error()}}
	}
	return validateStruct(out)
}

// bindQuery parsea los query params y los valida.
func bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return &fieldErrors{details: map[string]string{"query": "parámetros inválidos: " + err.Error()}}
	}
	return validateStruct(out)
}

// pathID devuelve el :id de la ruta si es un UUID válido. Un id mal formado no puede
// existir, así que se responde 404 igual que para un id desconocido.
func pathID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}


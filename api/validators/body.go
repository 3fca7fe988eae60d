package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/nomedigasn781-code/proyec/pkg/errors"
)

const (
	maxBodyBytes   = 1 << 20
	invalidBody    = "Datos inválidos"
	invalidEmail   = "Email inválido"
	messageTagName = "msg"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// normalizer is implemented by request types that trim or canonicalize
// their fields before validation.
type normalizer interface {
	Normalize()
}

// DecodeJSONBody decodes the request body into dest and validates it. An
// empty body decodes as an empty object so the first missing field is
// reported. Validation failures carry the msg tag of the first failing field.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, invalidBody)
	}
	if n, ok := dest.(normalizer); ok {
		n.Normalize()
	}
	return Struct(dest)
}

// Struct validates dest and reports the first failing field.
func Struct(dest any) error {
	if err := validate.Struct(dest); err != nil {
		return formatValidationError(dest, err)
	}
	return nil
}

// ValidateEmail checks the syntax of an already trimmed email address.
func ValidateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, invalidEmail)
	}
	return nil
}

func formatValidationError(dest any, err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		first := errs[0]
		return pkgerrors.New(pkgerrors.CodeValidation, messageFor(dest, first))
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, invalidBody)
}

func messageFor(dest any, fe validator.FieldError) string {
	t := reflect.TypeOf(dest)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Kind() == reflect.Struct {
		if field, ok := t.FieldByName(fe.StructField()); ok {
			if msg := field.Tag.Get(messageTagName); msg != "" {
				return msg
			}
		}
	}
	return validationMessage(fe)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("El campo %s es obligatorio", fe.Field())
	case "min":
		return fmt.Sprintf("El campo %s debe tener al menos %s caracteres", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("El campo %s debe tener como máximo %s caracteres", fe.Field(), fe.Param())
	case "email":
		return invalidEmail
	}
	return fmt.Sprintf("El campo %s es inválido", fe.Field())
}

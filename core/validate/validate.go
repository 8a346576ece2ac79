// Package validate checks intake form fields before anything reaches the
// backend.
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"turnos/common/constant"
	"turnos/common/errs"
	"turnos/model"

	"github.com/go-playground/validator/v10"
)

var (
	curpPattern   = regexp.MustCompile(`^[A-Za-z]{4}[0-9]{6}[HMhm][A-Za-z]{5}[0-9A-Za-z][0-9]$`)
	phonePattern  = regexp.MustCompile(`^[0-9]{10}$`)
	correoPattern = regexp.MustCompile(`^[^\s\p{Z}\x{FEFF}@]+@[^\s\p{Z}\x{FEFF}@]+\.[^\s\p{Z}\x{FEFF}@]+$`)
)

// Field is one named form value.
type Field struct {
	Name     string
	Value    string
	Required bool
}

type Result struct {
	Valid  bool
	Errors map[string]string
}

// Err returns the result as an *errs.ValidationError, or nil when valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &errs.ValidationError{Fields: r.Errors}
}

type rule struct {
	tag     string
	message string
}

var fieldRules = map[string]rule{
	"curp":     {tag: "curp", message: constant.MsgInvalidCurp},
	"telefono": {tag: "phone10", message: constant.MsgInvalidPhone},
	"celular":  {tag: "phone10", message: constant.MsgInvalidPhone},
	"correo":   {tag: "correo", message: constant.MsgInvalidCorreo},
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "curp", curpPattern)
	mustRegister(v, "phone10", phonePattern)
	mustRegister(v, "correo", correoPattern)

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// Validate applies the field rules to every field independently. Values are
// compared trimmed; the input slice is never modified.
func (in *Validator) Validate(fields []Field) Result {
	fieldErrors := make(map[string]string)

	for _, f := range fields {
		if _, seen := fieldErrors[f.Name]; seen {
			continue
		}

		if msg, ok := in.check(f); !ok {
			fieldErrors[f.Name] = msg
		}
	}

	return Result{Valid: len(fieldErrors) == 0, Errors: fieldErrors}
}

func (in *Validator) check(f Field) (string, bool) {
	value := strings.TrimSpace(f.Value)

	if value == "" {
		if f.Required {
			return constant.MsgRequired, false
		}
		return "", true
	}

	r, ok := fieldRules[f.Name]
	if !ok {
		return "", true
	}

	if err := in.validate.Var(value, r.tag); err != nil {
		return r.message, false
	}

	return "", true
}

// Struct runs the struct's validate tags. Failing fields are reported under
// their json name with the message from messages, or the failed tag.
func (in *Validator) Struct(s any, messages map[string]string) Result {
	err := in.validate.Struct(s)
	if err == nil {
		return Result{Valid: true, Errors: map[string]string{}}
	}

	fieldErrors := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		fieldErrors[""] = err.Error()
		return Result{Errors: fieldErrors}
	}

	for _, fe := range validationErrs {
		if msg, ok := messages[fe.Field()]; ok {
			fieldErrors[fe.Field()] = msg
			continue
		}
		fieldErrors[fe.Field()] = fe.Tag()
	}

	return Result{Errors: fieldErrors}
}

// TicketFields lists the intake form fields in form order. nombreCompleto is
// optional because it is derived from the name parts when blank.
func TicketFields(f model.TicketForm) []Field {
	return []Field{
		{Name: "nombreCompleto", Value: f.NombreCompleto},
		{Name: "curp", Value: f.Curp, Required: true},
		{Name: "nombre", Value: f.Nombre, Required: true},
		{Name: "paterno", Value: f.Paterno, Required: true},
		{Name: "materno", Value: f.Materno, Required: true},
		{Name: "telefono", Value: f.Telefono, Required: true},
		{Name: "celular", Value: f.Celular, Required: true},
		{Name: "correo", Value: f.Correo, Required: true},
		{Name: "nivel", Value: f.Nivel, Required: true},
		{Name: "municipio", Value: f.Municipio, Required: true},
		{Name: "asunto", Value: f.Asunto, Required: true},
	}
}

// Optional returns a copy of fields with the named ones no longer required.
func Optional(fields []Field, names ...string) []Field {
	out := make([]Field, len(fields))
	copy(out, fields)

	for i := range out {
		for _, name := range names {
			if out[i].Name == name {
				out[i].Required = false
			}
		}
	}
	return out
}

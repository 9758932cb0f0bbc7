package validation

import (
	"errors"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/RubachokBoss/course-admin/internal/models"
)

// Error lists the form fields that failed validation.
type Error struct {
	Fields []string
}

func (e *Error) Error() string {
	return "Por favor complete correctamente los campos: " + strings.Join(e.Fields, ", ")
}

// Validator checks request bodies before any backend call.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New()

	// имена полей берем из json тегов, они же имена полей формы
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// пустая или нераспознанная дата считается отсутствующей
	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		t, ok := field.Interface().(models.BackendTime)
		if !ok || !t.Valid() {
			return ""
		}
		return t.Format("2006-01-02T15:04:05")
	}, models.BackendTime{})

	v := &Validator{validate: validate}
	v.registerRules()

	return v
}

func (v *Validator) registerRules() {
	// Оценка хранится с точностью до одного десятичного знака
	v.validate.RegisterValidation("onedecimal", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		scaled := f * 10
		return math.Abs(scaled-math.Round(scaled)) < 1e-9
	})
}

// Struct validates s and returns *Error naming every failing field.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	seen := make(map[string]struct{}, len(verrs))
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if _, ok := seen[fe.Field()]; ok {
			continue
		}
		seen[fe.Field()] = struct{}{}
		fields = append(fields, fe.Field())
	}
	sort.Strings(fields)

	return &Error{Fields: fields}
}

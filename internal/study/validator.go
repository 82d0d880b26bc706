package study

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ptBRTranslations "github.com/go-playground/validator/v10/translations/pt_BR"
)

// FieldViolation describes one invalid input field.
type FieldViolation struct {
	Field   string
	Message string
}

// ValidationError reports user input rejected before it reaches storage.
type ValidationError struct {
	Violations []FieldViolation
}

// NewValidationError builds a ValidationError with a single violation.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Violations: []FieldViolation{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return "invalid input: " + strings.Join(msgs, ", ")
}

// Validator checks user input and produces pt-BR messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator creates a Validator with the study-specific rules registered.
func NewValidator() (*Validator, error) {
	validate := validator.New()

	ptLocale := pt_BR.New()
	uni := ut.New(ptLocale, ptLocale)
	trans, _ := uni.GetTranslator("pt_BR")
	if err := ptBRTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		d, ok := field.Interface().(civil.Date)
		if !ok || d == (civil.Date{}) || !d.IsValid() {
			return ""
		}
		return d.String()
	}, civil.Date{})

	if err := validate.RegisterValidation("reviewoffset", func(fl validator.FieldLevel) bool {
		return ReviewOffset(fl.Field().Int()).IsValid()
	}); err != nil {
		return nil, fmt.Errorf("failed to register reviewoffset validation: %w", err)
	}
	if err := registerTranslation(validate, trans, "reviewoffset", "{0} deve usar apenas os intervalos de 7, 15, 30, 60, 90 ou 120 dias"); err != nil {
		return nil, err
	}

	return &Validator{validate: validate, translator: trans}, nil
}

func registerTranslation(validate *validator.Validate, trans ut.Translator, tag, text string) error {
	if err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
		return ut.Add(tag, text, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(tag, fe.Field())
		return t
	}); err != nil {
		return fmt.Errorf("failed to register %s translation: %w", tag, err)
	}
	return nil
}

// Struct validates any struct carrying `validate` tags.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate.Struct() > %w", err)
	}

	result := &ValidationError{}
	for _, fe := range validationErrors {
		result.Violations = append(result.Violations, FieldViolation{
			Field:   fe.StructField(),
			Message: fe.Translate(v.translator),
		})
	}
	return result
}

// ValidateStudy trims the input and validates it.
func (v *Validator) ValidateStudy(in StudyInput) (StudyInput, error) {
	in.DisciplineID = strings.TrimSpace(in.DisciplineID)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Link = strings.TrimSpace(in.Link)
	if err := v.Struct(in); err != nil {
		return in, err
	}
	return in, nil
}

type disciplineInput struct {
	Name string `validate:"required" label:"nome"`
}

// ValidateDisciplineName trims and validates a discipline name.
func (v *Validator) ValidateDisciplineName(name string) (string, error) {
	in := disciplineInput{Name: strings.TrimSpace(name)}
	if err := v.Struct(in); err != nil {
		return in.Name, err
	}
	return in.Name, nil
}

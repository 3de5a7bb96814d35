package scholarship

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const duplicateEmailError = "duplicate email found in CSV"

// RecordValidator checks one coerced record against the required-field and
// format rules.
type RecordValidator struct {
	validate *validator.Validate
}

func NewRecordValidator() *RecordValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Must be registered before use; the error is only non-nil for an empty tag.
	_ = v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return strings.Contains(s, "@") && strings.Contains(s, ".")
	})
	return &RecordValidator{validate: v}
}

// Validate returns the human-readable failures for rec; an empty result
// means the record is accepted.
func (v *RecordValidator) Validate(rec *ScholarshipRecord) []string {
	err := v.validate.Struct(rec)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return msgs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "looseemail":
		return "invalid email format"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "max":
		return fmt.Sprintf("%s must be between 0 and 100", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// BatchValidator adds the batch-local duplicate email rule on top of the
// record rules. It is not safe for concurrent use.
type BatchValidator struct {
	records *RecordValidator
	seen    map[string]struct{}
}

func NewBatchValidator(records *RecordValidator) *BatchValidator {
	return &BatchValidator{records: records, seen: make(map[string]struct{})}
}

// Check validates rec and, when accepted, reserves its email for the rest
// of the batch.
func (b *BatchValidator) Check(rec *ScholarshipRecord) []string {
	if msgs := b.records.Validate(rec); len(msgs) > 0 {
		return msgs
	}
	if _, dup := b.seen[rec.Email]; dup {
		return []string{duplicateEmailError}
	}
	b.seen[rec.Email] = struct{}{}
	return nil
}

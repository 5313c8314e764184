package search

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/thesavant42/recordsearch/internal/models"
)

// Field identifies a form field that can carry an inline error
type Field string

const (
	FieldStart       Field = "Start"
	FieldEnd         Field = "End"
	FieldFilterField Field = "FilterField"
	FieldFilterValue Field = "FilterValue"
)

// Display labels double as validator field names in messages
const (
	LabelStart       = "Start DateTime"
	LabelEnd         = "End DateTime"
	LabelFilterField = "Search Parameter"
	LabelFilterValue = "Search Value"
)

// BannerMessage is shown above the form whenever a submit is rejected
const BannerMessage = "Please correct the listed errors and try again"

// FieldErrors maps each offending field to its single message
type FieldErrors map[Field]string

// ValidationError is returned by Submit when any rule fails
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return BannerMessage
}

// Draft holds the uncommitted form values.
// Date-times are kept as typed; they become epochs only on a successful submit.
type Draft struct {
	Start       string             `label:"Start DateTime" validate:"required,datetime_local"`
	End         string             `label:"End DateTime" validate:"required,datetime_local"`
	FilterField models.FilterField `label:"Search Parameter" validate:"oneof=none phone voicemail userId clusterId"`
	FilterValue string             `label:"Search Value"`

	loc *time.Location
}

type validatorSvc struct {
	validate   *validator.Validate
	translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *validatorSvc
)

// getValidator returns the package validator, built once with english translations
func getValidator() *validatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// messages use the label tag, e.g. "Start DateTime is a required field"
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if label := fld.Tag.Get("label"); label != "" {
				return label
			}
			return fld.Name
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		_ = v.RegisterValidation("datetime_local", validateDateTimeText)
		v.RegisterStructValidation(validateDraft, Draft{})

		registerMessage(v, trans, "datetime_local", "{0} must be a date-time like "+DateTimeLayout)
		registerMessage(v, trans, "before_end", "{0} must take place before the End DateTime.")
		registerMessage(v, trans, "after_start", "{0} must take place after the Start DateTime.")
		registerMessage(v, trans, "filter_value", "{0} must have a value if Search Parameter is not None")

		vSvc = &validatorSvc{validate: v, translator: trans}
	})
	return vSvc
}

// Validate checks every rule against the draft and returns one message per offending field.
// Rules are not short-circuited; an empty result means the draft can be committed.
func Validate(d Draft) FieldErrors {
	svc := getValidator()
	errs := FieldErrors{}

	err := svc.validate.Struct(d)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// only reachable on a programming error (non-struct input)
		errs[FieldStart] = err.Error()
		return errs
	}
	for _, fe := range verrs {
		field := Field(fe.StructField())
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = fe.Translate(svc.translator)
	}
	return errs
}

// validateDateTimeText accepts any parseable date-time; emptiness is left to "required"
func validateDateTimeText(fl validator.FieldLevel) bool {
	epoch, err := ParseDateTime(fl.Field().String(), time.UTC)
	return err == nil && epoch != nil
}

// validateDraft applies the cross-field rules after the field rules have run
func validateDraft(sl validator.StructLevel) {
	d := sl.Current().Interface().(Draft)

	start, startErr := ParseDateTime(d.Start, d.loc)
	end, endErr := ParseDateTime(d.End, d.loc)
	if startErr == nil && endErr == nil && start != nil && end != nil && *start >= *end {
		sl.ReportError(d.Start, LabelStart, string(FieldStart), "before_end", "")
		sl.ReportError(d.End, LabelEnd, string(FieldEnd), "after_start", "")
	}

	if d.FilterField.Valid() && d.FilterField != models.FilterNone && strings.TrimSpace(d.FilterValue) == "" {
		sl.ReportError(d.FilterValue, LabelFilterValue, string(FieldFilterValue), "filter_value", "")
	}
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field())
			return msg
		},
	)
}

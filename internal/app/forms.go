package app

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"voyage_backoffice/internal/domain"
	"voyage_backoffice/internal/shared"
)

// FormValidator applies the dialogs' client-side rules: every required
// field must be non-empty after trimming, and a validation failure must
// abort before any network call.
type FormValidator struct {
	v    *validator.Validate
	msgs shared.Messages
}

func NewFormValidator(msgs shared.Messages) *FormValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report backend field names, not Go names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &FormValidator{v: v, msgs: msgs}
}

// Check trims every string field in place (payload must be a pointer to a
// struct) and then applies the payload's validate tags.
func (f *FormValidator) Check(payload any) error {
	trimStrings(reflect.ValueOf(payload))
	if err := f.v.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return &domain.ValidationError{Fields: fields}
		}
		return err
	}
	return nil
}

// Message renders the banner text for a validation failure.
func (f *FormValidator) Message() string {
	return f.msgs.Get(shared.MsgRequiredFields)
}

func trimStrings(v reflect.Value) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < v.NumField(); i++ {
		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.String:
			if fv.CanSet() {
				fv.SetString(strings.TrimSpace(fv.String()))
			}
		case reflect.Struct, reflect.Pointer:
			trimStrings(fv)
		}
	}
}

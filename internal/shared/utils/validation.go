package utils

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Saaayurii/Chat-sub000/internal/shared/errors"
)

// opaqueIDPattern accepts the foreign identifiers handed to us by the chat
// platform: operator, visitor and conversation ids.
var opaqueIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_\-:.@]{0,127}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	configureValidator(v)
	return v
}

func configureValidator(v *validator.Validate) {
	// Use JSON tag names for validation errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("opaque_id", func(fl validator.FieldLevel) bool {
		return IsOpaqueID(fl.Field().String())
	})
}

// RegisterGinValidations installs the custom rules on gin's binding validator
// so `binding:"opaque_id"` works in request structs.
func RegisterGinValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configureValidator(v)
	}
}

// IsOpaqueID reports whether s is an acceptable foreign identifier.
func IsOpaqueID(s string) bool {
	return opaqueIDPattern.MatchString(s)
}

// ValidateStruct validates a struct and returns a user-friendly error
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		if appErr := BindingError(err); appErr != nil {
			return appErr
		}
		return errors.NewValidationError("Validation failed", err.Error())
	}
	return nil
}

// BindingError converts validator failures into a validation AppError.
// It returns nil when err did not come from the validator.
func BindingError(err error) *errors.AppError {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldErrorMessage(fe))
	}
	return errors.NewValidationError("Validation failed", strings.Join(msgs, "; "))
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "opaque_id":
		return fmt.Sprintf("%s must be a valid identifier", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", field, fe.Param())
	case "dive":
		return fmt.Sprintf("%s contains an invalid element", field)
	default:
		return fmt.Sprintf("%s failed validation for '%s'", field, fe.Tag())
	}
}

package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/hirepulse/hirepulse-backend/internal/access"
	"github.com/hirepulse/hirepulse-backend/internal/model"
)

// trans is the singleton English translator for validation errors.
var trans ut.Translator

// Languages accepted by the coding lab.
var Languages = []string{"python", "java", "cpp"}

type customTag struct {
	tag     string
	fn      govalidator.Func
	message string
}

var customTags = []customTag{
	{
		tag:     "accesscode",
		fn:      func(fl govalidator.FieldLevel) bool { return access.ValidAccessCode(fl.Field().String()) },
		message: "{0} must be a 6 character access code",
	},
	{
		tag:     "category",
		fn:      func(fl govalidator.FieldLevel) bool { return model.Category(fl.Field().String()).Valid() },
		message: "{0} must be one of TECHNICAL, CODING, SYSTEM_DESIGN, APTITUDE",
	},
	{
		tag:     "difficulty",
		fn:      func(fl govalidator.FieldLevel) bool { return model.Difficulty(fl.Field().String()).Valid() },
		message: "{0} must be one of BEGINNER, INTERMEDIATE, EXPERT",
	},
	{
		tag:     "language",
		fn:      isLanguage,
		message: "{0} must be one of python, java, cpp",
	},
}

func isLanguage(fl govalidator.FieldLevel) bool {
	lang := strings.ToLower(fl.Field().String())
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// Setup registers the validator with English translations and the custom
// domain tags on Gin's binding engine. Call once during application startup.
func Setup() {
	if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
		Register(v)
	}
}

// Register configures v. Exposed for tests that build their own validator.
func Register(v *govalidator.Validate) {
	// Use JSON tag name for field names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	for _, ct := range customTags {
		_ = v.RegisterValidation(ct.tag, ct.fn)
		msg := ct.message
		tag := ct.tag
		_ = v.RegisterTranslation(tag, trans,
			func(u ut.Translator) error { return u.Add(tag, msg, true) },
			func(u ut.Translator, fe govalidator.FieldError) string {
				t, _ := u.T(tag, fe.Field())
				return t
			},
		)
	}
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name to human-readable error message. Other errors (e.g. JSON
// syntax) come back under "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

package errs

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var translator ut.Translator

func init() {
	//gin owns the validator used by ShouldBind*, so configure that one.
	validate, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	en_translations.RegisterDefaultTranslations(validate, translator)

	//using json tag names instead of field names
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		tag := field.Tag.Get("json")
		name := strings.SplitN(tag, ",", 2)[0]

		if name == "-" {
			return ""
		}
		return name
	})
}

// FieldErrors turns validator errors into a field -> message map.
func FieldErrors(verrors validator.ValidationErrors) map[string]string {
	fieldErrs := make(map[string]string, len(verrors))
	for _, e := range verrors {
		if translator == nil {
			fieldErrs[e.Field()] = e.Error()
			continue
		}
		fieldErrs[e.Field()] = e.Translate(translator)
	}

	return fieldErrs
}

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
)

// tagName совпадает с тегом gin, чтобы одни и те же DTO проверялись и в шлюзе, и в клиенте.
const tagName = "binding"

var (
	standalone     *validator.Validate
	standaloneOnce sync.Once
	ginOnce        sync.Once
	ginErr         error
)

// Engine возвращает валидатор для кода вне gin (CLI, workflow клиент).
func Engine() *validator.Validate {
	standaloneOnce.Do(func() {
		v := validator.New()
		v.SetTagName(tagName)
		if err := configure(v); err != nil {
			panic(fmt.Sprintf("validation: не удалось зарегистрировать правила: %v", err))
		}
		standalone = v
	})
	return standalone
}

// RegisterGin добавляет собственные правила в валидатор gin binding.
func RegisterGin() error {
	ginOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			ginErr = errors.New("validation: движок gin binding не является validator/v10")
			return
		}
		ginErr = configure(v)
	})
	return ginErr
}

func configure(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	rules := map[string]validator.Func{
		"minrunes": func(fl validator.FieldLevel) bool {
			n, err := strconv.Atoi(fl.Param())
			return err == nil && RuneLen(fl.Field().String()) >= n
		},
		"maxrunes": func(fl validator.FieldLevel) bool {
			n, err := strconv.Atoi(fl.Param())
			return err == nil && RuneLen(fl.Field().String()) <= n
		},
		"reportreason": func(fl validator.FieldLevel) bool {
			return valueobject.IsReportReason(fl.Field().String())
		},
		"phone": func(fl validator.FieldLevel) bool {
			return ValidatePhone(fl.Field().String()) == nil
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// Struct проверяет DTO и возвращает ошибку валидации с сообщениями по полям.
func Struct(s interface{}) error {
	return FromError(Engine().Struct(s))
}

// FromError переводит ошибки validator/v10 (в том числе из ShouldBindJSON) в apperror.
func FromError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation(apperror.FieldError{Field: "body", Message: "некорректный JSON"})
	}

	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{Field: fieldPath(fe), Message: message(fe)})
	}
	return apperror.Validation(fields...)
}

// fieldPath убирает имя корневой структуры: DeliverRequest.deliveryFiles[0] -> deliveryFiles[0].
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	isList := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s обязательно", field)
	case "minrunes":
		return fmt.Sprintf("%s должен быть не менее %s символов", field, fe.Param())
	case "maxrunes":
		return fmt.Sprintf("%s должен быть не более %s символов", field, fe.Param())
	case "min":
		if isList {
			return fmt.Sprintf("%s: нужно не менее %s элементов", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s должен быть не менее %s символов", field, fe.Param())
		}
		return fmt.Sprintf("%s должен быть не меньше %s", field, fe.Param())
	case "max":
		if isList {
			return fmt.Sprintf("%s: допускается не более %s элементов", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s должен быть не более %s символов", field, fe.Param())
		}
		return fmt.Sprintf("%s должен быть не больше %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s должен быть не меньше %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s должен быть больше %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s должен быть одним из: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "reportreason":
		return fmt.Sprintf("%s должен быть одним из: %s", field, strings.Join(valueobject.ReportReasons, ", "))
	case "numeric":
		return fmt.Sprintf("%s должен содержать только цифры", field)
	case "phone":
		return "некорректный номер телефона"
	}
	return fmt.Sprintf("%s имеет некорректное значение", field)
}

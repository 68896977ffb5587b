package dto

import (
	"errors"
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"qrlink-go/pkg/utils"
)

var registerOnce sync.Once

// RegisterValidators 在 gin 的校验引擎上注册自定义标签 httpurl、fqdn_host
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		if err = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
			return utils.ValidateDestinationURL(fl.Field().String()) == nil
		}); err != nil {
			return
		}
		err = v.RegisterValidation("fqdn_host", func(fl validator.FieldLevel) bool {
			return utils.ValidateHostname(utils.NormalizeHostname(fl.Field().String())) == nil
		})
	})
	return err
}

// BindingMessage 取第一个校验失败字段的 msg 标签，没有时返回默认消息
func BindingMessage(req interface{}, err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return "error.invalid_request"
	}

	t := reflect.TypeOf(req)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for _, e := range validationErrs {
		field, ok := t.FieldByName(e.StructField())
		if !ok {
			continue
		}
		if msg := field.Tag.Get("msg"); msg != "" {
			return msg
		}
	}
	return "error.invalid_request"
}

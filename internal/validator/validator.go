package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var mobileRe = regexp.MustCompile(`^1\d{10}$`)

// IsMobile 校验手机号：必须是 1 开头的 11 位数字。
func IsMobile(fl validator.FieldLevel) bool {
	return ValidMobile(fl.Field().String())
}

// ValidMobile is the same rule for callers outside gin binding.
func ValidMobile(phone string) bool {
	return mobileRe.MatchString(phone)
}

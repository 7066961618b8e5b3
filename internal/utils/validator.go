package utils

import (
	"net/mail"
	"regexp"
	"strings"
)

// ValidateUsername checks if the username meets the requirements.
func ValidateUsername(username string) (bool, string) {
	if len(username) < 2 || len(username) > 32 {
		return false, "用户名长度需在 2-32 位之间"
	}

	// 允许英文大小写、数字和下划线
	if matched, _ := regexp.MatchString(`^[a-zA-Z0-9_]+$`, username); !matched {
		return false, "用户名只能包含英文大小写、数字和下划线"
	}

	// 不能是纯数字
	if matched, _ := regexp.MatchString(`^[0-9]+$`, username); matched {
		return false, "用户名不能为纯数字"
	}

	return true, ""
}

// ValidatePassword checks if the password meets the requirements.
// Returns true if valid, otherwise false and an error message.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "密码最少8位"
	}

	if matched, _ := regexp.MatchString(`^[a-zA-Z0-9[:punct:]]+$`, password); !matched {
		return false, "密码只能包含英文大小写、数字和符号"
	}

	hasLetter, _ := regexp.MatchString(`[a-zA-Z]`, password)
	hasNum, _ := regexp.MatchString(`[0-9]`, password)
	if !hasLetter || !hasNum {
		return false, "密码必须包含至少一个字母和一个数字"
	}

	return true, ""
}

// ValidateEmail checks if the address parses as a bare RFC 5322 address.
func ValidateEmail(email string) (bool, string) {
	email = strings.TrimSpace(email)
	if email == "" || len(email) > 254 {
		return false, "邮箱格式不正确"
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false, "邮箱格式不正确"
	}

	return true, ""
}

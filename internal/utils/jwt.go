package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/vshalt/chirp/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPurpose 操作令牌的用途标签。验证时必须与签发用途一致，
// 防止邮箱验证令牌被拿去当重置密码令牌使用。
type TokenPurpose string

const (
	PurposeConfirm     TokenPurpose = "confirm"
	PurposeReset       TokenPurpose = "reset"
	PurposeEmailChange TokenPurpose = "email_change"
)

// ErrInvalidToken 所有预期内的令牌校验失败（过期/篡改/用途不符）统一返回
// 该错误，调用方无法也不需要区分具体原因。
var ErrInvalidToken = errors.New("令牌无效或已过期")

// LoginClaims 用于登录认证
type LoginClaims struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Type     string `json:"type"` // "login"
	jwt.RegisteredClaims
}

// ActionClaims 用于账号操作令牌（邮箱验证/重置密码/换绑邮箱）
type ActionClaims struct {
	ID      uint              `json:"id"`
	Purpose TokenPurpose      `json:"purpose"`
	Payload map[string]string `json:"payload,omitempty"`
	jwt.RegisteredClaims
}

func getSecret() []byte {
	return []byte(config.Get().JWT.Secret)
}

func GenerateLoginToken(id uint, username string, duration time.Duration) (string, error) {
	claims := LoginClaims{
		ID:       id,
		Username: username,
		Type:     "login",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			Issuer:    "chirp",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getSecret())
}

// GenerateActionToken 签发一个带用途和有效期的操作令牌。
// payload 携带该操作需要的附加数据（如换绑邮箱时的新地址），可以为 nil。
func GenerateActionToken(purpose TokenPurpose, userID uint, payload map[string]string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := ActionClaims{
		ID:      userID,
		Purpose: purpose,
		Payload: payload,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			Issuer:    "chirp",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getSecret())
}

func ParseLoginToken(tokenString string) (*LoginClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &LoginClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*LoginClaims); ok && token.Valid {
		if claims.Type != "login" {
			return nil, errors.New("invalid token type")
		}
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ParseActionToken 校验操作令牌。签名不符、已过期、用途不符都返回
// ErrInvalidToken，不泄露失败的具体环节。
func ParseActionToken(tokenString string, expected TokenPurpose) (*ActionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getSecret(), nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ActionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != expected {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Определяем пользовательские ошибки для обработки JWT.
var (
	ErrTokenIsInvalid = errors.New("токен недействителен")
	ErrTokenIsExpired = errors.New("токен истёк")
	ErrNonceIsInvalid = errors.New("одноразовый токен недействителен")
)

// Действия, для которых выдаются одноразовые токены.
const (
	NonceActionQuote = "quote"
	NonceActionAdmin = "admin"
)

const (
	tokenTypeAccess = "access"
	tokenTypeNonce  = "nonce"

	accessTokenTTL = 24 * time.Hour
	nonceTTL       = 12 * time.Hour
)

// JWTService представляет сервис для работы с JWT токенами.
type JWTService struct {
	authSecretKey string
	now           func() time.Time
}

func NewJWTService(authSecretKey string) *JWTService {
	return &JWTService{authSecretKey: authSecretKey, now: time.Now}
}

// GenerateJWT генерирует токен доступа для указанного субъекта на 24 часа.
func (j *JWTService) GenerateJWT(subject string) (string, error) {
	now := j.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"typ": tokenTypeAccess,
		"iat": now.Unix(),
		"exp": now.Add(accessTokenTTL).Unix(),
	})

	tokenString, err := token.SignedString([]byte(j.authSecretKey))
	if err != nil {
		return "", fmt.Errorf("error while generating token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken проверяет подпись и срок действия токена доступа.
func (j *JWTService) ValidateToken(tokenString string) (*jwt.Token, error) {
	parsedToken, err := j.parse(tokenString)
	if err != nil {
		return nil, err
	}

	if typ, _ := parsedToken.Claims.(jwt.MapClaims)["typ"].(string); typ != tokenTypeAccess {
		return nil, ErrTokenIsInvalid
	}

	return parsedToken, nil
}

// GenerateNonce выдаёт токен защиты от подделки запросов,
// привязанный к пользователю и действию, на 12 часов.
func (j *JWTService) GenerateNonce(userID, action string) (string, error) {
	now := j.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"act": action,
		"typ": tokenTypeNonce,
		"iat": now.Unix(),
		"exp": now.Add(nonceTTL).Unix(),
	})

	tokenString, err := token.SignedString([]byte(j.authSecretKey))
	if err != nil {
		return "", fmt.Errorf("error while generating nonce: %w", err)
	}

	return tokenString, nil
}

// VerifyNonce проверяет, что токен выдан этому пользователю для этого действия.
func (j *JWTService) VerifyNonce(tokenString, userID, action string) error {
	parsedToken, err := j.parse(tokenString)
	if err != nil {
		return ErrNonceIsInvalid
	}

	claims, _ := parsedToken.Claims.(jwt.MapClaims)
	typ, _ := claims["typ"].(string)
	sub, _ := claims["sub"].(string)
	act, _ := claims["act"].(string)

	if typ != tokenTypeNonce || sub != userID || act != action {
		return ErrNonceIsInvalid
	}

	return nil
}

func (j *JWTService) parse(tokenString string) (*jwt.Token, error) {
	parsedToken, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.authSecretKey), nil
	}, jwt.WithTimeFunc(j.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenIsExpired
		}
		return nil, fmt.Errorf("error while validating token: %w", err)
	}

	if !parsedToken.Valid {
		return nil, ErrTokenIsInvalid
	}

	return parsedToken, nil
}

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"walkin_queue/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// StaffIDKey: ключ контекста gin, под которым лежит идентификатор сотрудника.
const StaffIDKey = "staffID"

// StaffID возвращает идентификатор сотрудника, установленный Middleware.
func StaffID(c *gin.Context) string {
	return c.GetString(StaffIDKey)
}

// Middleware проверяет access токен сотрудника, подписанный HMAC-секретом.
// Идентификатор берётся из claim staff_id, а при его отсутствии из sub.
func Middleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "NO_AUTH_HEADER", "Требуется авторизация", "")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Неверный или просроченный токен", "")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN_CLAIMS", "Невозможно прочитать claims токена", "")
			return
		}

		staffID, err := staffFromClaims(claims)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_STAFF_ID", "Невозможно извлечь staff_id", err.Error())
			return
		}

		c.Set(StaffIDKey, staffID)
		c.Next()
	}
}

func staffFromClaims(claims jwt.MapClaims) (string, error) {
	switch v := claims["staff_id"].(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case float64:
		return fmt.Sprintf("%.0f", v), nil
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errors.New("token has no staff_id or sub")
	}
	return sub, nil
}

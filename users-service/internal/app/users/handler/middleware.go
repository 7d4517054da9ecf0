package handler

import (
	"net/http"
	"strconv"
	"strings"

	"umsshop/pkg/audit"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims у покупателя user_id это seq из таблицы Users
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	RoleName string `json:"role_name"`
	jwt.RegisteredClaims
}

var (
	// backOfficeRoles могут одобрять пользователей и смотреть историю
	backOfficeRoles = []string{"manager", "admin"}
	// adminRoles управляют аккаунтами менеджеров
	adminRoles = []string{"admin"}
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

// Authenticate проверяет JWT токен и кладет seq, email и роль в контекст
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "Authorization header required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "Invalid authorization header format"))
			return
		}

		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(m.jwtSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "Invalid or expired token"))
			return
		}

		var seq int64
		if !hasRole(claims.RoleName, backOfficeRoles) {
			seq, err = strconv.ParseInt(claims.UserID, 10, 64)
			if err != nil || seq <= 0 {
				c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "Invalid user ID in token"))
				return
			}
		}

		c.Set("user_seq", seq)
		c.Set("email", claims.Email)
		c.Set("role_name", claims.RoleName)

		c.Next()
	}
}

func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleName := c.GetString("role_name")
		if roleName == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "Unauthorized"))
			return
		}
		if !hasRole(roleName, roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, errorBody(http.StatusForbidden, "Insufficient permissions"))
			return
		}
		c.Next()
	}
}

// RequireCustomer маршруты /me доступны только покупателям с seq
func (m *AuthMiddleware) RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetInt64("user_seq") == 0 {
			c.AbortWithStatusJSON(http.StatusForbidden, errorBody(http.StatusForbidden, "Customer account required"))
			return
		}
		c.Next()
	}
}

func hasRole(role string, roles []string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func actorFromContext(c *gin.Context) audit.Actor {
	return audit.Actor{
		Manager:    c.GetString("email"),
		DeviceInfo: c.Request.UserAgent() + " (" + c.ClientIP() + ")",
	}
}

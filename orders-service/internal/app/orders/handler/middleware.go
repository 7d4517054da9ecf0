package handler

import (
	"net/http"
	"strconv"
	"strings"

	"umsshop/orders-service/internal/app/orders/entity"
	"umsshop/pkg/audit"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims у покупателя user_id это seq из таблицы Users,
// у менеджера идентификатор из back-office
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	RoleName string `json:"role_name"`
	jwt.RegisteredClaims
}

// adminRoles роли back-office, которым доступны все заказы
var adminRoles = []string{"manager", "admin"}

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate проверяет JWT токен и добавляет данные пользователя в контекст Gin
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "Authorization header required"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "Invalid authorization header format"))
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(m.jwtSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "Invalid or expired token"))
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*JWTClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "Invalid token claims"))
			c.Abort()
			return
		}

		admin := isAdminRole(claims.RoleName)

		// Для покупателя seq обязателен, по нему ищется push токен
		var seq int64
		if !admin {
			seq, err = strconv.ParseInt(claims.UserID, 10, 64)
			if err != nil {
				c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "Invalid user ID in token"))
				c.Abort()
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
			c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "Unauthorized"))
			c.Abort()
			return
		}

		for _, role := range roles {
			if roleName == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, errorBody(http.StatusForbidden, "Insufficient permissions"))
		c.Abort()
	}
}

func isAdminRole(role string) bool {
	for _, r := range adminRoles {
		if r == role {
			return true
		}
	}
	return false
}

func callerFromContext(c *gin.Context) entity.Caller {
	return entity.Caller{
		Seq:   c.GetInt64("user_seq"),
		Email: c.GetString("email"),
		Admin: isAdminRole(c.GetString("role_name")),
	}
}

// actorFromContext автор изменения для журнала действий
func actorFromContext(c *gin.Context) audit.Actor {
	return audit.Actor{
		Manager:    c.GetString("email"),
		DeviceInfo: c.Request.UserAgent() + " (" + c.ClientIP() + ")",
	}
}

package handler

import (
	"net/http"
	"strconv"
	"strings"

	"umsshop/pkg/audit"
	"umsshop/qna-service/internal/app/qna/entity"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type JWTClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	RoleName string `json:"role_name"`
	jwt.RegisteredClaims
}

// adminRoles роли back-office, которые отвечают на вопросы
var adminRoles = []string{"manager", "admin"}

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "Authorization header required"))
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
		if !isAdminRole(claims.RoleName) {
			seq, err = strconv.ParseInt(claims.UserID, 10, 64)
			if err != nil {
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
		for _, role := range roles {
			if roleName == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, errorBody(http.StatusForbidden, "Insufficient permissions"))
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

func actorFromContext(c *gin.Context) audit.Actor {
	return audit.Actor{
		Manager:    c.GetString("email"),
		DeviceInfo: c.Request.UserAgent() + " (" + c.ClientIP() + ")",
	}
}

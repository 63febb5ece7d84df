package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const formTokenHeader = "X-Form-Token"

// FormTokenHandler issues the short-lived HMAC token the booking and
// contact forms must echo back, replacing session-bound CSRF tokens
// for the static site.
func (a *App) FormTokenHandler(c *gin.Context) {
	now := time.Now()
	claims := jwt.MapClaims{
		"purpose": "form",
		"iat":     now.Unix(),
		"exp":     now.Add(a.Cfg.FormTokenExpires).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(a.Cfg.FormTokenSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_in": int(a.Cfg.FormTokenExpires.Seconds()),
	})
}

// RequireFormToken guards form posts: the token from FormTokenHandler
// must arrive in the X-Form-Token header.
func (a *App) RequireFormToken() gin.HandlerFunc {
	secret := []byte(a.Cfg.FormTokenSecret)

	return func(c *gin.Context) {
		tokenStr := c.GetHeader(formTokenHeader)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "missing form token"})
			return
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return secret, nil
		}, jwt.WithLeeway(5*time.Second))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid form token"})
			return
		}
		if claims, ok := token.Claims.(jwt.MapClaims); !ok || claims["purpose"] != "form" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid form token"})
			return
		}
		c.Next()
	}
}

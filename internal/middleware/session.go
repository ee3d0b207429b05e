package middleware

import (
	"net/http"
	"time"

	"github.com/SergeiKhy/click-to-wish/internal/session"
	"github.com/gin-gonic/gin"
)

const sessionContextKey = "visitor_session"

// SessionConfig параметры cookie сессии
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
}

// Session находит сессию по cookie или создаёт новую и кладёт её в контекст запроса
func Session(manager *session.Manager, config SessionConfig) gin.HandlerFunc {
	if config.CookieName == "" {
		config.CookieName = "ctw_session"
	}

	return func(c *gin.Context) {
		id, _ := c.Cookie(config.CookieName)

		sess, created := manager.Resolve(id)
		if created || id != sess.ID {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(config.CookieName, sess.ID, int(config.TTL/time.Second), "/", "", false, true)
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// SessionFromContext извлекает сессию из контекста
func SessionFromContext(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}
	sess, ok := value.(*session.Session)
	return sess, ok
}

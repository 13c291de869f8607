package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wyfcoding/onlineshop/internal/cart/application"
	"github.com/wyfcoding/onlineshop/internal/cart/infrastructure/session"
	"github.com/wyfcoding/onlineshop/pkg/logger"
)

const sessionContextKey = "shop_session"

// SessionMiddleware 为每个请求加载会话，请求结束后持久化修改。
// 首次访问时生成新的会话 ID 并下发 cookie。
func SessionMiddleware(store *session.Store, cookieName string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cookieName)
		if err != nil || sid == "" {
			sid = uuid.New().String()
			c.SetCookie(cookieName, sid, int(ttl.Seconds()), "/", "", false, true)
		}

		sess := store.Load(c.Request.Context(), sid)
		c.Set(sessionContextKey, sess)

		c.Next()

		if err := store.Save(c.Request.Context(), sess); err != nil {
			logger.Error(c.Request.Context(), "Failed to persist session", "session_id", sid, "error", err)
		}
	}
}

// sessionFrom 取出中间件注入的会话
func sessionFrom(c *gin.Context) application.Session {
	v, _ := c.Get(sessionContextKey)
	sess, _ := v.(application.Session)
	return sess
}

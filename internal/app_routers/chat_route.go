package approuters

import (
	"github.com/gin-gonic/gin"

	"github.com/de-code-ninja/qurio-backend/internal/configuration"
	"github.com/de-code-ninja/qurio-backend/internal/handler"
)

func ChatRouters(router *gin.Engine, container *configuration.Container) {
	chatRoute := router.Group("/api", handler.RequireIdentity())
	{
		chatRoute.GET("/messages/:friendId", container.ChatHandler.GetMessages)
		chatRoute.GET("/chat-previews", container.ChatHandler.GetChatPreviews)
	}
}

package router

import (
	"vida-social/internal/api/handler"
	"vida-social/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Setup 注册所有业务路由
func Setup(
	r *gin.Engine,
	jwtSecret string,
	userHandler *handler.UserHandler,
	relationHandler *handler.RelationHandler,
	blockHandler *handler.BlockHandler,
	commentHandler *handler.CommentHandler,
	notificationHandler *handler.NotificationHandler,
) {
	authRequired := middleware.AuthRequired(jwtSecret)
	authOptional := middleware.AuthOptional(jwtSecret)

	v1 := r.Group("/api/v1")

	// --- 关注关系 ---
	follows := v1.Group("/follows", authRequired)
	{
		follows.POST("", relationHandler.Follow)
		follows.DELETE("", relationHandler.Unfollow)
		follows.GET("", relationHandler.GetFollowStatus)
	}

	followRequests := v1.Group("/follow-requests", authRequired)
	{
		followRequests.GET("", relationHandler.ListFollowRequests)
		followRequests.POST("/:id/approve", relationHandler.ApproveFollowRequest)
		followRequests.POST("/:id/reject", relationHandler.RejectFollowRequest)
	}

	// --- 拉黑 ---
	blocks := v1.Group("/blocks", authRequired)
	{
		blocks.POST("", blockHandler.Block)
		blocks.DELETE("", blockHandler.Unblock)
	}

	// --- 用户 ---
	users := v1.Group("/users")
	{
		users.PUT("/me/privacy", authRequired, userHandler.UpdatePrivacy)

		users.GET("/:id", authOptional, userHandler.GetUser)
		users.GET("/:id/followers", authOptional, relationHandler.GetFollowers)
		users.GET("/:id/following", authOptional, relationHandler.GetFollowing)
	}

	// --- 评论（列表允许匿名）---
	comments := v1.Group("/comments")
	{
		comments.GET("", authOptional, commentHandler.List)

		commentsAuth := comments.Group("", authRequired)
		{
			commentsAuth.POST("", commentHandler.Create)
			commentsAuth.DELETE("", commentHandler.Delete)
			commentsAuth.POST("/:id/like", commentHandler.Like)
			commentsAuth.DELETE("/:id/like", commentHandler.Unlike)
		}
	}

	// --- 通知 ---
	notifications := v1.Group("/notifications", authRequired)
	{
		notifications.GET("", notificationHandler.List)
		notifications.POST("/read", notificationHandler.MarkRead)
		notifications.GET("/unread-count", notificationHandler.UnreadCount)
	}
}

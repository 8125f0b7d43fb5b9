package handler

import (
	"strconv"

	"vida-social/internal/api/dto"
	"vida-social/internal/api/middleware"
	"vida-social/internal/api/response"
	"vida-social/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// List GET /api/v1/comments?videoId=&skip=&limit=
func (h *CommentHandler) List(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Query("videoId"), 10, 64)
	if err != nil || videoID <= 0 {
		response.BadRequest(c, "无效的视频ID")
		return
	}
	skip, limit := parsePagination(c)
	viewerID, _ := middleware.GetCurrentUserID(c)

	data, err := h.commentService.List(c.Request.Context(), viewerID, videoID, skip, limit)
	if err != nil {
		handleServiceError(c, err, "List comments")
		return
	}

	response.OK(c, data)
}

// Create POST /api/v1/comments
func (h *CommentHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	var req dto.CommentCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.commentService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err, "Create comment")
		return
	}

	response.Created(c, result)
}

// Delete DELETE /api/v1/comments
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	var req dto.CommentDeleteRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.commentService.Delete(c.Request.Context(), userID, req.CommentID)
	if err != nil {
		handleServiceError(c, err, "Delete comment")
		return
	}

	response.OK(c, result)
}

// Like POST /api/v1/comments/:id/like
func (h *CommentHandler) Like(c *gin.Context) {
	commentID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的评论ID")
		return
	}
	userID, _ := middleware.GetCurrentUserID(c)

	result, err := h.commentService.Like(c.Request.Context(), userID, commentID)
	if err != nil {
		handleServiceError(c, err, "Like comment")
		return
	}

	response.OK(c, result)
}

// Unlike DELETE /api/v1/comments/:id/like
func (h *CommentHandler) Unlike(c *gin.Context) {
	commentID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的评论ID")
		return
	}
	userID, _ := middleware.GetCurrentUserID(c)

	result, err := h.commentService.Unlike(c.Request.Context(), userID, commentID)
	if err != nil {
		handleServiceError(c, err, "Unlike comment")
		return
	}

	response.OK(c, result)
}

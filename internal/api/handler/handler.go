package handler

import (
	"strconv"

	"vida-social/internal/api/middleware"
	"vida-social/internal/api/response"
	"vida-social/internal/service"
	"vida-social/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

func parseIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err == nil && id <= 0 {
		err = strconv.ErrRange
	}
	return id, err
}

// parsePagination 解析 skip/limit，limit 默认 20，最大 100
func parsePagination(c *gin.Context) (int, int) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return skip, limit
}

// handleServiceError 按错误类别映射状态码，未知错误只记录日志并返回 500
func handleServiceError(c *gin.Context, err error, op string) {
	message := err.Error()
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Error()
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		response.BadRequest(c, message)
	case errors.Is(err, service.ErrUnauthenticated):
		response.Unauthorized(c, message)
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, message)
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, message)
	default:
		logger.Error(op+" failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		response.InternalError(c, "操作失败，请稍后重试")
	}
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return false
	}
	return true
}

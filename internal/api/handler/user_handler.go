package handler

import (
	"vida-social/internal/api/dto"
	"vida-social/internal/api/middleware"
	"vida-social/internal/api/response"
	"vida-social/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUser 获取用户主页
// @Summary 获取用户主页
// @Description 返回计数、隐私设置以及当前用户与其的关注状态（匿名访问时为 not_following）
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} dto.UserProfile
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}
	viewerID, _ := middleware.GetCurrentUserID(c)

	profile, err := h.userService.GetProfile(c.Request.Context(), viewerID, userID)
	if err != nil {
		handleServiceError(c, err, "Get user")
		return
	}

	response.OK(c, profile)
}

// UpdatePrivacy 更新隐私设置
// @Summary 更新隐私设置
// @Description 局部更新，requireFollowApproval 可显式设为 null 以跟随 isPublic
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PrivacyUpdateRequest true "隐私设置"
// @Success 200 {object} dto.PrivacyInfo
// @Failure 400 {object} response.ErrorResponse "取值无效"
// @Router /users/me/privacy [put]
func (h *UserHandler) UpdatePrivacy(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)

	var req dto.PrivacyUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.userService.UpdatePrivacy(c.Request.Context(), currentUserID, &req)
	if err != nil {
		handleServiceError(c, err, "Update privacy")
		return
	}

	response.OK(c, info)
}

package handler

import (
	"strconv"

	"vida-social/internal/api/dto"
	"vida-social/internal/api/middleware"
	"vida-social/internal/api/response"
	"vida-social/internal/service"

	"github.com/gin-gonic/gin"
)

type RelationHandler struct {
	relationService *service.RelationService
}

func NewRelationHandler(relationService *service.RelationService) *RelationHandler {
	return &RelationHandler{relationService: relationService}
}

// Follow 关注用户
// @Summary 关注用户
// @Description 关注指定用户，目标需要审批时创建关注请求。重复调用返回当前状态
// @Tags 关注
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TargetRequest true "目标用户"
// @Success 201 {object} dto.FollowResult "新建关注关系"
// @Success 200 {object} dto.FollowResult "已关注或已申请"
// @Failure 403 {object} response.ErrorResponse "不能关注自己/存在拉黑"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /follows [post]
func (h *RelationHandler) Follow(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)

	var req dto.TargetRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.relationService.Request(c.Request.Context(), currentUserID, req.TargetID)
	if err != nil {
		handleServiceError(c, err, "Follow")
		return
	}

	if result.Created {
		response.Created(c, result)
		return
	}
	response.OK(c, result)
}

// Unfollow 取消关注或撤回关注请求
// @Summary 取消关注
// @Tags 关注
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TargetRequest true "目标用户"
// @Success 200 {object} dto.FollowResult "not_following"
// @Router /follows [delete]
func (h *RelationHandler) Unfollow(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)

	var req dto.TargetRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.relationService.Cancel(c.Request.Context(), currentUserID, req.TargetID)
	if err != nil {
		handleServiceError(c, err, "Unfollow")
		return
	}

	response.OK(c, result)
}

// GetFollowStatus 查询是否已关注
// @Summary 获取关注状态
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param targetId query int true "目标用户ID"
// @Success 200 {object} dto.FollowCheckResult
// @Router /follows [get]
func (h *RelationHandler) GetFollowStatus(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	targetID, err := strconv.ParseInt(c.Query("targetId"), 10, 64)
	if err != nil || targetID <= 0 {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	result, err := h.relationService.IsFollowing(c.Request.Context(), currentUserID, targetID)
	if err != nil {
		handleServiceError(c, err, "Get follow status")
		return
	}

	response.OK(c, result)
}

// ListFollowRequests 获取收到的待处理关注请求
// @Summary 关注请求列表
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param skip query int false "偏移" default(0)
// @Param limit query int false "数量" default(20)
// @Success 200 {object} dto.FollowRequestListData
// @Router /follow-requests [get]
func (h *RelationHandler) ListFollowRequests(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	skip, limit := parsePagination(c)

	data, err := h.relationService.IncomingRequests(c.Request.Context(), currentUserID, skip, limit)
	if err != nil {
		handleServiceError(c, err, "List follow requests")
		return
	}

	response.OK(c, data)
}

// ApproveFollowRequest POST /api/v1/follow-requests/:id/approve
func (h *RelationHandler) ApproveFollowRequest(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	requestID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的请求ID")
		return
	}

	result, err := h.relationService.Approve(c.Request.Context(), currentUserID, requestID)
	if err != nil {
		handleServiceError(c, err, "Approve follow request")
		return
	}

	response.OK(c, result)
}

// RejectFollowRequest POST /api/v1/follow-requests/:id/reject
func (h *RelationHandler) RejectFollowRequest(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	requestID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的请求ID")
		return
	}

	result, err := h.relationService.Reject(c.Request.Context(), currentUserID, requestID)
	if err != nil {
		handleServiceError(c, err, "Reject follow request")
		return
	}

	response.OK(c, result)
}

// GetFollowing 获取关注列表
// @Summary 获取用户关注列表
// @Tags 关注
// @Produce json
// @Param id path int true "用户ID"
// @Param skip query int false "偏移" default(0)
// @Param limit query int false "数量" default(20)
// @Success 200 {object} dto.RelationListData
// @Router /users/{id}/following [get]
func (h *RelationHandler) GetFollowing(c *gin.Context) {
	userID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}
	skip, limit := parsePagination(c)

	data, err := h.relationService.GetFollowingList(c.Request.Context(), userID, skip, limit)
	if err != nil {
		handleServiceError(c, err, "Get following list")
		return
	}

	response.OK(c, data)
}

// GetFollowers 获取粉丝列表
// @Summary 获取用户粉丝列表
// @Tags 关注
// @Produce json
// @Param id path int true "用户ID"
// @Param skip query int false "偏移" default(0)
// @Param limit query int false "数量" default(20)
// @Success 200 {object} dto.RelationListData
// @Router /users/{id}/followers [get]
func (h *RelationHandler) GetFollowers(c *gin.Context) {
	userID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}
	skip, limit := parsePagination(c)

	data, err := h.relationService.GetFollowerList(c.Request.Context(), userID, skip, limit)
	if err != nil {
		handleServiceError(c, err, "Get follower list")
		return
	}

	response.OK(c, data)
}

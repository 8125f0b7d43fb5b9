package handler

import (
	"vida-social/internal/api/dto"
	"vida-social/internal/api/middleware"
	"vida-social/internal/api/response"
	"vida-social/internal/service"

	"github.com/gin-gonic/gin"
)

type BlockHandler struct {
	blockService *service.BlockService
}

func NewBlockHandler(blockService *service.BlockService) *BlockHandler {
	return &BlockHandler{blockService: blockService}
}

// Block POST /api/v1/blocks
func (h *BlockHandler) Block(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)

	var req dto.TargetRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.blockService.Block(c.Request.Context(), currentUserID, req.TargetID)
	if err != nil {
		handleServiceError(c, err, "Block")
		return
	}

	response.OK(c, result)
}

// Unblock DELETE /api/v1/blocks
func (h *BlockHandler) Unblock(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)

	var req dto.TargetRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.blockService.Unblock(c.Request.Context(), currentUserID, req.TargetID)
	if err != nil {
		handleServiceError(c, err, "Unblock")
		return
	}

	response.OK(c, result)
}

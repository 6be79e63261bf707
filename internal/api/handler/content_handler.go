package handler

import (
    "errors"
    "strings"

    "github.com/gin-gonic/gin"
    "github.com/google/uuid"

    "github.com/d60-Lab/autopub/internal/model"
    "github.com/d60-Lab/autopub/pkg/response"
)

type createContentRequest struct {
    Title       string   `json:"title"`
    Body        string   `json:"body" binding:"required"`
    Assets      []string `json:"assets"`
    Platforms   string   `json:"platforms" binding:"omitempty,platforms"`
    ReplyText   string   `json:"reply_text"`
    Immediate   bool     `json:"immediate"`
    EnrichQuote bool     `json:"enrich_quote"`
    Status      string   `json:"status" binding:"omitempty,oneof=idea drafted"`
}

// CreateContent 录入一条内容（初始状态 idea 或 drafted）
// @Summary 创建内容
// @Tags 内容
// @Accept json
// @Produce json
// @Param request body createContentRequest true "内容"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/contents [post]
func (h *Handler) CreateContent(c *gin.Context) {
    var req createContentRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    status := model.ContentStatus(req.Status)
    if req.Status == "" {
        status = model.ContentIdea
    }
    item := &model.ContentItem{
        ID:          uuid.New().String(),
        Title:       req.Title,
        Body:        req.Body,
        Assets:      strings.Join(req.Assets, ","),
        Status:      status,
        Platforms:   req.Platforms,
        ReplyText:   req.ReplyText,
        Immediate:   req.Immediate,
        EnrichQuote: req.EnrichQuote,
    }
    if err := h.contents.Create(c.Request.Context(), item); err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"id": item.ID})
}

type updateStatusRequest struct {
    From string `json:"from" binding:"required"`
    To   string `json:"to" binding:"required"`
}

// UpdateContentStatus 人工推进/回退内容状态（如 processing -> drafted 重试富化）
// @Summary 更新内容状态
// @Tags 内容
// @Accept json
// @Produce json
// @Param id path string true "内容ID"
// @Param request body updateStatusRequest true "期望的迁移"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/contents/{id}/status [patch]
func (h *Handler) UpdateContentStatus(c *gin.Context) {
    var req updateStatusRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    from, to := model.ContentStatus(req.From), model.ContentStatus(req.To)
    if !from.Valid() || !to.Valid() {
        response.BadRequest(c, "unknown status")
        return
    }
    err := h.contents.UpdateStatus(c.Request.Context(), c.Param("id"), from, to, nil)
    if err != nil {
        if errors.Is(err, model.ErrInvalidTransition) {
            response.BadRequest(c, err.Error())
            return
        }
        response.InternalError(c, err)
        return
    }
    response.Success(c, nil)
}

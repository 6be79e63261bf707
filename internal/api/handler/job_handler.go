package handler

import (
    "github.com/getsentry/sentry-go"
    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/autopub/pkg/response"
)

// ScheduleReady 把 ready 内容排进时刻表
// @Summary 触发排期
// @Tags 任务
// @Produce json
// @Success 200 {object} response.Response{data=service.Report}
// @Failure 500 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/jobs/schedule-ready [post]
func (h *Handler) ScheduleReady(c *gin.Context) {
    rep, err := h.scheduler.ScheduleReady(c.Request.Context())
    if err != nil {
        sentry.CaptureException(err)
        response.InternalError(c, err)
        return
    }
    response.Success(c, rep)
}

// PublishDue 投递所有到期条目
// @Summary 触发投递
// @Tags 任务
// @Produce json
// @Success 200 {object} response.Response{data=service.Report}
// @Failure 500 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/jobs/publish-due [post]
func (h *Handler) PublishDue(c *gin.Context) {
    rep, err := h.dispatcher.PublishDue(c.Request.Context())
    if err != nil {
        sentry.CaptureException(err)
        response.InternalError(c, err)
        return
    }
    response.Success(c, rep)
}

// RescheduleAll 清空待发队列并按当前参数重排
// @Summary 整体重排
// @Tags 任务
// @Produce json
// @Success 200 {object} response.Response{data=service.RescheduleReport}
// @Failure 500 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/jobs/reschedule-all [post]
func (h *Handler) RescheduleAll(c *gin.Context) {
    rep, err := h.rescheduler.RescheduleAll(c.Request.Context())
    if err != nil {
        sentry.CaptureException(err)
        response.InternalError(c, err)
        return
    }
    response.Success(c, rep)
}

// ProcessDrafted 对草稿内容跑富化流水线
// @Summary 触发富化
// @Tags 任务
// @Produce json
// @Success 200 {object} response.Response{data=service.Report}
// @Failure 500 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/jobs/process-drafted [post]
func (h *Handler) ProcessDrafted(c *gin.Context) {
    rep, err := h.enricher.ProcessDrafted(c.Request.Context())
    if err != nil {
        sentry.CaptureException(err)
        response.InternalError(c, err)
        return
    }
    response.Success(c, rep)
}

package handler

import (
    "strings"

    "github.com/gin-gonic/gin/binding"
    "github.com/go-playground/validator/v10"

    "github.com/d60-Lab/autopub/config"
    "github.com/d60-Lab/autopub/internal/model"
    "github.com/d60-Lab/autopub/internal/repository"
    "github.com/d60-Lab/autopub/internal/service"
)

type Handler struct {
    scheduler   *service.AutoScheduler
    dispatcher  *service.Dispatcher
    rescheduler *service.Rescheduler
    enricher    *service.Enricher
    contents    repository.ContentRepository
    users       repository.UserRepository
    auth        config.AuthConfig
}

func New(
    scheduler *service.AutoScheduler,
    dispatcher *service.Dispatcher,
    rescheduler *service.Rescheduler,
    enricher *service.Enricher,
    contents repository.ContentRepository,
    users repository.UserRepository,
    auth config.AuthConfig,
) *Handler {
    return &Handler{
        scheduler:   scheduler,
        dispatcher:  dispatcher,
        rescheduler: rescheduler,
        enricher:    enricher,
        contents:    contents,
        users:       users,
        auth:        auth,
    }
}

// RegisterValidators 注册自定义校验：platforms 为逗号分隔的受支持平台列表
func RegisterValidators() {
    v, ok := binding.Validator.Engine().(*validator.Validate)
    if !ok {
        return
    }
    _ = v.RegisterValidation("platforms", func(fl validator.FieldLevel) bool {
        s := fl.Field().String()
        if s == "" {
            return true
        }
        for _, p := range strings.Split(s, ",") {
            switch strings.TrimSpace(p) {
            case model.PlatformTwitter, model.PlatformLinkedIn:
            default:
                return false
            }
        }
        return true
    })
}

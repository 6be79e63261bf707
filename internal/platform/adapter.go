package platform

import (
    "context"
    "errors"
)

// ErrCredentialExpired 平台侧凭证过期（HTTP 401），调用方透明刷新后重试一次
var ErrCredentialExpired = errors.New("platform credential expired")

// PublishRequest 单平台一次发布的输入
type PublishRequest struct {
    Text      string
    Assets    []string // 素材 URL，保序
    ReplyText string   // 可选跟帖文案
}

// PublishResult 发布结果
type PublishResult struct {
    URL      string
    ReplyURL string
}

// Adapter 平台发布适配器；各平台调用彼此隔离，失败必须可与成功区分
type Adapter interface {
    Name() string
    Publish(ctx context.Context, req PublishRequest) (*PublishResult, error)
}

// Registry 平台名 -> 适配器，启动时静态注册
type Registry struct {
    adapters map[string]Adapter
    order    []string
}

func NewRegistry(adapters ...Adapter) *Registry {
    r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
    for _, a := range adapters {
        if _, dup := r.adapters[a.Name()]; dup {
            continue
        }
        r.adapters[a.Name()] = a
        r.order = append(r.order, a.Name())
    }
    return r
}

func (r *Registry) Get(name string) (Adapter, bool) {
    a, ok := r.adapters[name]
    return a, ok
}

func (r *Registry) Names() []string { return r.order }

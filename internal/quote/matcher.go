package quote

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "strings"
    "time"

    "github.com/d60-Lab/autopub/config"
)

// Matcher 金句匹配协作方：为正文挑选最贴合的金句素材引用
// 返回空串表示没有合适的素材
type Matcher interface {
    MatchBestAsset(ctx context.Context, text string) (string, error)
}

const matchPrompt = `从素材库为下面这段正文挑选最贴合的一条金句素材，只输出素材编号；没有合适的输出 none。

正文：
%s`

// llmMatcher OpenAI 兼容 chat-completions 接口的实现
type llmMatcher struct {
    endpoint string
    apiKey   string
    model    string
    hc       *http.Client
}

func NewMatcher(cfg config.QuoteConfig) Matcher {
    return &llmMatcher{
        endpoint: strings.TrimRight(cfg.Endpoint, "/"),
        apiKey:   cfg.APIKey,
        model:    cfg.Model,
        hc:       &http.Client{Timeout: 60 * time.Second},
    }
}

func (m *llmMatcher) MatchBestAsset(ctx context.Context, text string) (string, error) {
    body := map[string]any{
        "model": m.model,
        "messages": []map[string]string{
            {"role": "user", "content": fmt.Sprintf(matchPrompt, text)},
        },
    }
    buf, _ := json.Marshal(body)

    req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint+"/v1/chat/completions", bytes.NewReader(buf))
    if err != nil {
        return "", err
    }
    req.Header.Set("Content-Type", "application/json")
    req.Header.Set("Authorization", "Bearer "+m.apiKey)

    resp, err := m.hc.Do(req)
    if err != nil {
        return "", err
    }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
        return "", fmt.Errorf("quote match: status %d: %s", resp.StatusCode, string(b))
    }

    var out struct {
        Choices []struct {
            Message struct {
                Content string `json:"content"`
            } `json:"message"`
        } `json:"choices"`
    }
    if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
        return "", err
    }
    if len(out.Choices) == 0 {
        return "", fmt.Errorf("quote match: empty response")
    }
    ref := strings.TrimSpace(out.Choices[0].Message.Content)
    if ref == "" || strings.EqualFold(ref, "none") {
        return "", nil
    }
    return ref, nil
}

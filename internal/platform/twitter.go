package platform

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strings"
    "time"

    "go.uber.org/zap"

    "github.com/d60-Lab/autopub/config"
    "github.com/d60-Lab/autopub/pkg/logger"
)

// TwitterAdapter X(Twitter) API v2 适配器
type TwitterAdapter struct {
    base         string
    clientID     string
    clientSecret string
    store        TokenStore
    hc           *http.Client
}

func NewTwitterAdapter(cfg config.TwitterConfig, store TokenStore) *TwitterAdapter {
    return &TwitterAdapter{
        base:         strings.TrimRight(cfg.APIBase, "/"),
        clientID:     cfg.ClientID,
        clientSecret: cfg.ClientSecret,
        store:        store,
        hc:           &http.Client{Timeout: 30 * time.Second},
    }
}

func (a *TwitterAdapter) Name() string { return "twitter" }

// Publish 发主推（可选跟帖）；凭证过期时刷新后重试一次（有界循环，不递归）
func (a *TwitterAdapter) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
    var lastErr error
    for attempt := 0; attempt < 2; attempt++ {
        tok, err := a.store.Token(ctx, a.Name())
        if err != nil {
            return nil, err
        }
        res, err := a.publishOnce(ctx, tok, req)
        if err == nil {
            return res, nil
        }
        lastErr = err
        if !errors.Is(err, ErrCredentialExpired) || attempt > 0 {
            return nil, err
        }
        if rerr := a.refresh(ctx); rerr != nil {
            return nil, fmt.Errorf("twitter token refresh: %w", rerr)
        }
    }
    return nil, lastErr
}

func (a *TwitterAdapter) publishOnce(ctx context.Context, token string, req PublishRequest) (*PublishResult, error) {
    text := req.Text
    if len(req.Assets) > 0 {
        // 素材以链接形式附在正文后
        text = text + "\n" + strings.Join(req.Assets, "\n")
    }
    id, err := a.createTweet(ctx, token, map[string]any{"text": text})
    if err != nil {
        return nil, err
    }
    res := &PublishResult{URL: "https://x.com/i/web/status/" + id}

    if req.ReplyText != "" {
        replyID, err := a.createTweet(ctx, token, map[string]any{
            "text":  req.ReplyText,
            "reply": map[string]any{"in_reply_to_tweet_id": id},
        })
        if err != nil {
            // 主推已成功，跟帖失败只记日志
            logger.Warn("twitter reply failed", zap.String("tweet", id), zap.Error(err))
        } else {
            res.ReplyURL = "https://x.com/i/web/status/" + replyID
        }
    }
    return res, nil
}

func (a *TwitterAdapter) createTweet(ctx context.Context, token string, body map[string]any) (string, error) {
    buf, _ := json.Marshal(body)
    httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.base+"/2/tweets", bytes.NewReader(buf))
    if err != nil {
        return "", err
    }
    httpReq.Header.Set("Content-Type", "application/json")
    httpReq.Header.Set("Authorization", "Bearer "+token)

    resp, err := a.hc.Do(httpReq)
    if err != nil {
        return "", err
    }
    defer resp.Body.Close()

    if resp.StatusCode == http.StatusUnauthorized {
        return "", ErrCredentialExpired
    }
    if resp.StatusCode >= 300 {
        b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
        return "", fmt.Errorf("twitter create tweet: status %d: %s", resp.StatusCode, string(b))
    }

    var out struct {
        Data struct {
            ID string `json:"id"`
        } `json:"data"`
    }
    if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
        return "", err
    }
    if out.Data.ID == "" {
        return "", fmt.Errorf("twitter create tweet: empty id")
    }
    return out.Data.ID, nil
}

// refresh 用 refresh_token 换新 access token，先落库再返回
func (a *TwitterAdapter) refresh(ctx context.Context) error {
    secret, err := a.store.RefreshSecret(ctx, a.Name())
    if err != nil {
        return err
    }
    if secret == "" {
        return fmt.Errorf("no refresh token stored")
    }

    form := url.Values{}
    form.Set("grant_type", "refresh_token")
    form.Set("refresh_token", secret)
    form.Set("client_id", a.clientID)

    httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.base+"/2/oauth2/token", strings.NewReader(form.Encode()))
    if err != nil {
        return err
    }
    httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
    httpReq.SetBasicAuth(a.clientID, a.clientSecret)

    resp, err := a.hc.Do(httpReq)
    if err != nil {
        return err
    }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
        return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
    }

    var out struct {
        AccessToken  string `json:"access_token"`
        RefreshToken string `json:"refresh_token"`
    }
    if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
        return err
    }
    // 先持久化，后续调用一律读库，避免旧 token 复用
    if err := a.store.SetToken(ctx, a.Name(), out.AccessToken); err != nil {
        return err
    }
    if out.RefreshToken != "" {
        if err := a.store.SetRefreshSecret(ctx, a.Name(), out.RefreshToken); err != nil {
            return err
        }
    }
    return nil
}

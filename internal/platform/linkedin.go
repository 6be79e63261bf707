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

const linkedinAuthorKey = "linkedin:author"

// LinkedInAdapter LinkedIn UGC 发帖适配器
// author URN 走短时缓存（显式键 + TTL），不做进程级全局变量
type LinkedInAdapter struct {
    base         string
    clientID     string
    clientSecret string
    authorTTL    time.Duration
    store        TokenStore
    hc           *http.Client
}

func NewLinkedInAdapter(cfg config.LinkedInConfig, store TokenStore) *LinkedInAdapter {
    ttl := cfg.AuthorTTL
    if ttl <= 0 {
        ttl = time.Hour
    }
    return &LinkedInAdapter{
        base:         strings.TrimRight(cfg.APIBase, "/"),
        clientID:     cfg.ClientID,
        clientSecret: cfg.ClientSecret,
        authorTTL:    ttl,
        store:        store,
        hc:           &http.Client{Timeout: 30 * time.Second},
    }
}

func (a *LinkedInAdapter) Name() string { return "linkedin" }

func (a *LinkedInAdapter) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
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
            return nil, fmt.Errorf("linkedin token refresh: %w", rerr)
        }
    }
    return nil, lastErr
}

func (a *LinkedInAdapter) publishOnce(ctx context.Context, token string, req PublishRequest) (*PublishResult, error) {
    author, err := a.authorURN(ctx, token)
    if err != nil {
        return nil, err
    }

    text := req.Text
    if len(req.Assets) > 0 {
        text = text + "\n" + strings.Join(req.Assets, "\n")
    }
    body := map[string]any{
        "author":         author,
        "lifecycleState": "PUBLISHED",
        "specificContent": map[string]any{
            "com.linkedin.ugc.ShareContent": map[string]any{
                "shareCommentary":    map[string]any{"text": text},
                "shareMediaCategory": "NONE",
            },
        },
        "visibility": map[string]any{
            "com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
        },
    }

    postID, err := a.doJSON(ctx, token, http.MethodPost, "/v2/ugcPosts", body)
    if err != nil {
        return nil, err
    }
    res := &PublishResult{URL: "https://www.linkedin.com/feed/update/" + postID}

    if req.ReplyText != "" {
        comment := map[string]any{
            "actor":   author,
            "message": map[string]any{"text": req.ReplyText},
        }
        path := "/v2/socialActions/" + url.PathEscape(postID) + "/comments"
        if _, err := a.doJSON(ctx, token, http.MethodPost, path, comment); err != nil {
            logger.Warn("linkedin comment failed", zap.String("post", postID), zap.Error(err))
        } else {
            res.ReplyURL = res.URL
        }
    }
    return res, nil
}

// authorURN 解析当前账号的 person URN，短时缓存
func (a *LinkedInAdapter) authorURN(ctx context.Context, token string) (string, error) {
    if urn, err := a.store.Meta(ctx, linkedinAuthorKey); err != nil {
        return "", err
    } else if urn != "" {
        return urn, nil
    }

    httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, a.base+"/v2/userinfo", nil)
    if err != nil {
        return "", err
    }
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
        return "", fmt.Errorf("linkedin userinfo: status %d: %s", resp.StatusCode, string(b))
    }

    var out struct {
        Sub string `json:"sub"`
    }
    if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
        return "", err
    }
    if out.Sub == "" {
        return "", fmt.Errorf("linkedin userinfo: empty sub")
    }
    urn := "urn:li:person:" + out.Sub
    if err := a.store.SetMeta(ctx, linkedinAuthorKey, urn, a.authorTTL); err != nil {
        return "", err
    }
    return urn, nil
}

// doJSON 发 JSON 请求，返回响应中的资源 ID（X-RestLi-Id 头或 body.id）
func (a *LinkedInAdapter) doJSON(ctx context.Context, token, method, path string, body map[string]any) (string, error) {
    buf, _ := json.Marshal(body)
    httpReq, err := http.NewRequestWithContext(ctx, method, a.base+path, bytes.NewReader(buf))
    if err != nil {
        return "", err
    }
    httpReq.Header.Set("Content-Type", "application/json")
    httpReq.Header.Set("Authorization", "Bearer "+token)
    httpReq.Header.Set("X-Restli-Protocol-Version", "2.0.0")

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
        return "", fmt.Errorf("linkedin %s %s: status %d: %s", method, path, resp.StatusCode, string(b))
    }

    if id := resp.Header.Get("X-RestLi-Id"); id != "" {
        return id, nil
    }
    var out struct {
        ID string `json:"id"`
    }
    _ = json.NewDecoder(resp.Body).Decode(&out)
    return out.ID, nil
}

// refresh 用 refresh_token 换新 access token，先落库再返回
func (a *LinkedInAdapter) refresh(ctx context.Context) error {
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
    form.Set("client_secret", a.clientSecret)

    httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.base+"/oauth/v2/accessToken", strings.NewReader(form.Encode()))
    if err != nil {
        return err
    }
    httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

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

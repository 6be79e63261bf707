package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/autopub/config"
)

func newLinkedInTestServer(t *testing.T, handler http.HandlerFunc) (*LinkedInAdapter, TokenStore) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store, _ := newTestStore(t)
	a := NewLinkedInAdapter(config.LinkedInConfig{
		APIBase:      srv.URL,
		ClientID:     "cid",
		ClientSecret: "csecret",
	}, store)
	return a, store
}

func TestLinkedInPublishCachesAuthor(t *testing.T) {
	var userinfoCalls, postCalls int
	a, store := newLinkedInTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/userinfo":
			userinfoCalls++
			_ = json.NewEncoder(w).Encode(map[string]string{"sub": "abc"})
		case "/v2/ugcPosts":
			postCalls++
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "urn:li:person:abc", body["author"])
			w.Header().Set("X-RestLi-Id", "urn:li:share:1")
			w.WriteHeader(http.StatusCreated)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()
	require.NoError(t, store.SetToken(ctx, "linkedin", "at-1"))

	res, err := a.Publish(ctx, PublishRequest{Text: "正文"})
	require.NoError(t, err)
	require.Equal(t, "https://www.linkedin.com/feed/update/urn:li:share:1", res.URL)

	// 第二次发布命中缓存，不再请求 userinfo
	_, err = a.Publish(ctx, PublishRequest{Text: "再发一条"})
	require.NoError(t, err)
	require.Equal(t, 1, userinfoCalls)
	require.Equal(t, 2, postCalls)
}

func TestLinkedInPostIDFromBody(t *testing.T) {
	a, store := newLinkedInTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/userinfo":
			_ = json.NewEncoder(w).Encode(map[string]string{"sub": "abc"})
		case "/v2/ugcPosts":
			// 没有 X-RestLi-Id 头时从 body.id 拿
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "urn:li:share:2"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()
	require.NoError(t, store.SetToken(ctx, "linkedin", "at-1"))

	res, err := a.Publish(ctx, PublishRequest{Text: "正文"})
	require.NoError(t, err)
	require.Equal(t, "https://www.linkedin.com/feed/update/urn:li:share:2", res.URL)
}

func TestLinkedInCommentFailureTolerated(t *testing.T) {
	a, store := newLinkedInTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v2/userinfo":
			_ = json.NewEncoder(w).Encode(map[string]string{"sub": "abc"})
		case r.URL.Path == "/v2/ugcPosts":
			w.Header().Set("X-RestLi-Id", "urn:li:share:3")
			w.WriteHeader(http.StatusCreated)
		default: // comments
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	ctx := context.Background()
	require.NoError(t, store.SetToken(ctx, "linkedin", "at-1"))

	res, err := a.Publish(ctx, PublishRequest{Text: "正文", ReplyText: "评论"})
	require.NoError(t, err)
	require.Equal(t, "https://www.linkedin.com/feed/update/urn:li:share:3", res.URL)
	require.Empty(t, res.ReplyURL)
}

// 401 走刷新后重试，新 token 先落库再复用
func TestLinkedInRefreshRetry(t *testing.T) {
	var refreshCalls int
	a, store := newLinkedInTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/userinfo":
			if r.Header.Get("Authorization") != "Bearer at-new" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"sub": "abc"})
		case "/oauth/v2/accessToken":
			refreshCalls++
			require.NoError(t, r.ParseForm())
			require.Equal(t, "rt-old", r.Form.Get("refresh_token"))
			require.Equal(t, "csecret", r.Form.Get("client_secret"))
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "at-new"})
		case "/v2/ugcPosts":
			w.Header().Set("X-RestLi-Id", "urn:li:share:4")
			w.WriteHeader(http.StatusCreated)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()
	require.NoError(t, store.SetToken(ctx, "linkedin", "at-stale"))
	require.NoError(t, store.SetRefreshSecret(ctx, "linkedin", "rt-old"))

	res, err := a.Publish(ctx, PublishRequest{Text: "正文"})
	require.NoError(t, err)
	require.Equal(t, "https://www.linkedin.com/feed/update/urn:li:share:4", res.URL)
	require.Equal(t, 1, refreshCalls)

	tok, err := store.Token(ctx, "linkedin")
	require.NoError(t, err)
	require.Equal(t, "at-new", tok)
}

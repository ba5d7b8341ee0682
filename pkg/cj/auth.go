package cj

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// ExpiryMargin 会话剩余有效期小于该值即视为过期
const ExpiryMargin = time.Hour

// 静态 Key 没有真正的过期时间，给一年
const staticKeyLifetime = 365 * 24 * time.Hour

// 令牌接口未返回过期时间时的兜底有效期
const defaultTokenLifetime = 15 * 24 * time.Hour

// Session 供应商会话，只保存在内存
type Session struct {
	AccessToken      string
	RefreshToken     string
	ExpiresAt        time.Time
	RefreshExpiresAt time.Time
}

// expired 是否在 margin 内过期
func (s *Session) expired(now time.Time, margin time.Duration) bool {
	if s == nil || s.AccessToken == "" {
		return true
	}
	return !now.Add(margin).Before(s.ExpiresAt)
}

// canRefresh 刷新令牌是否可用
func (s *Session) canRefresh(now time.Time) bool {
	if s == nil || s.RefreshToken == "" {
		return false
	}
	return s.RefreshExpiresAt.IsZero() || now.Before(s.RefreshExpiresAt)
}

// Authenticator 鉴权策略
// 静态 Key 与令牌交换两种模式都实现该接口
type Authenticator interface {
	Authenticate(ctx context.Context) (*Session, error)
	Refresh(ctx context.Context, current *Session) (*Session, error)
}

// ==================== 静态 Key ====================

// StaticKeyAuthenticator API Key 直接作为访问令牌 (格式 CJ{userId}@api@{token})
type StaticKeyAuthenticator struct {
	APIKey string
	now    func() time.Time
}

// NewStaticKeyAuthenticator 创建静态 Key 鉴权
func NewStaticKeyAuthenticator(apiKey string) *StaticKeyAuthenticator {
	return &StaticKeyAuthenticator{APIKey: apiKey, now: time.Now}
}

func (a *StaticKeyAuthenticator) Authenticate(_ context.Context) (*Session, error) {
	if a.APIKey == "" {
		return nil, &AuthError{Reason: "缺少 API Key", Err: ErrNoCredential}
	}
	return &Session{
		AccessToken: a.APIKey,
		ExpiresAt:   a.now().Add(staticKeyLifetime),
	}, nil
}

// Refresh 静态 Key 无需刷新，重新生成会话即可
func (a *StaticKeyAuthenticator) Refresh(ctx context.Context, _ *Session) (*Session, error) {
	return a.Authenticate(ctx)
}

// ==================== 令牌交换 ====================

// TokenExchangeAuthenticator 用 API Key 换取 accessToken / refreshToken
type TokenExchangeAuthenticator struct {
	APIKey    string
	http      *resty.Client
	endpoints Endpoints
	now       func() time.Time
}

// NewTokenExchangeAuthenticator 创建令牌交换鉴权
func NewTokenExchangeAuthenticator(apiKey string, http *resty.Client, endpoints Endpoints) *TokenExchangeAuthenticator {
	if endpoints == nil {
		endpoints = DefaultEndpoints()
	}
	return &TokenExchangeAuthenticator{
		APIKey:    apiKey,
		http:      http,
		endpoints: endpoints,
		now:       time.Now,
	}
}

func (a *TokenExchangeAuthenticator) Authenticate(ctx context.Context) (*Session, error) {
	if a.APIKey == "" {
		return nil, &AuthError{Reason: "缺少 API Key", Err: ErrNoCredential}
	}
	return a.exchange(ctx, OpAuthToken, map[string]string{"apiKey": a.APIKey})
}

func (a *TokenExchangeAuthenticator) Refresh(ctx context.Context, current *Session) (*Session, error) {
	if !current.canRefresh(a.now()) {
		return nil, &AuthError{Reason: "refreshToken 不可用"}
	}
	return a.exchange(ctx, OpAuthRefresh, map[string]string{"refreshToken": current.RefreshToken})
}

func (a *TokenExchangeAuthenticator) exchange(ctx context.Context, op string, payload interface{}) (*Session, error) {
	ep := a.endpoints.Get(op)
	env, err := send(ctx, a.http, ep, payload, "")
	if err != nil {
		return nil, &AuthError{Reason: "令牌接口不可达", Err: err}
	}
	if !env.OK() {
		return nil, &AuthError{Reason: env.Message, Err: &RejectedError{Endpoint: ep.Path, Code: env.Code, Message: env.Message}}
	}

	var data TokenData
	if err := env.Decode(&data); err != nil {
		return nil, &AuthError{Reason: "令牌响应解析失败", Err: err}
	}
	if data.AccessToken == "" {
		return nil, &AuthError{Reason: "响应中没有 accessToken"}
	}

	now := a.now()
	return &Session{
		AccessToken:      data.AccessToken,
		RefreshToken:     data.RefreshToken,
		ExpiresAt:        parseExpiry(data.AccessTokenExpiryDate, now.Add(defaultTokenLifetime)),
		RefreshExpiresAt: parseExpiry(data.RefreshTokenExpiryDate, time.Time{}),
	}, nil
}

func parseExpiry(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return fallback
}

package cj

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"primepet_supply/pkg/utils"
)

// HeaderAccessToken CJ 鉴权头
const HeaderAccessToken = "CJ-Access-Token"

// DefaultBaseURL CJ 开放平台地址
const DefaultBaseURL = "https://developers.cjdropshipping.com/api2.0/v1"

// 鉴权模式
const (
	AuthModeStatic = "static"
	AuthModeToken  = "token"
)

// Config 客户端配置
type Config struct {
	BaseURL   string
	APIKey    string
	AuthMode  string // static | token
	Timeout   time.Duration
	ProxyURL  string
	Debug     bool
	Endpoints map[string]Endpoint // 覆盖默认接口
}

// Client CJDropshipping API 客户端
// 失败时返回 nil 结果 + 类型化错误，不 panic，不重试
type Client struct {
	http      *resty.Client
	auth      Authenticator
	endpoints Endpoints
	log       *zap.Logger
	now       func() time.Time

	mu      sync.Mutex
	session *Session
}

// NewClient 创建客户端
func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}

	rc := utils.NewSupplierClient(utils.ClientOptions{
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.Timeout,
		ProxyURL: cfg.ProxyURL,
		Debug:    cfg.Debug,
	})
	endpoints := DefaultEndpoints().With(cfg.Endpoints)

	var auth Authenticator
	switch cfg.AuthMode {
	case AuthModeToken:
		auth = NewTokenExchangeAuthenticator(cfg.APIKey, rc, endpoints)
	default:
		auth = NewStaticKeyAuthenticator(cfg.APIKey)
	}

	return &Client{
		http:      rc,
		auth:      auth,
		endpoints: endpoints,
		log:       log.Named("cj"),
		now:       time.Now,
	}
}

// ==================== 会话管理 ====================

// Authenticate 建立会话
func (c *Client) Authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticateLocked(ctx)
}

func (c *Client) authenticateLocked(ctx context.Context) error {
	if c.auth == nil {
		return &AuthError{Reason: "未配置鉴权策略"}
	}
	sess, err := c.auth.Authenticate(ctx)
	if err != nil {
		c.log.Error("[CJ] 鉴权失败", zap.Error(err))
		return err
	}
	c.session = sess
	c.log.Info("[CJ] 会话已建立", zap.Time("expires_at", sess.ExpiresAt))
	return nil
}

// IsSessionExpired 没有会话或 1 小时内过期
func (c *Client) IsSessionExpired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.expired(c.now(), ExpiryMargin)
}

// Refresh 刷新会话，刷新失败时退回完整鉴权
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked(ctx)
}

func (c *Client) refreshLocked(ctx context.Context) error {
	if c.auth == nil {
		return &AuthError{Reason: "未配置鉴权策略"}
	}
	if c.session.canRefresh(c.now()) {
		sess, err := c.auth.Refresh(ctx, c.session)
		if err == nil {
			c.session = sess
			return nil
		}
		c.log.Warn("[CJ] 刷新令牌失败，改为重新鉴权", zap.Error(err))
	}
	return c.authenticateLocked(ctx)
}

// SessionExpiresAt 当前会话过期时间，没有会话返回零值
func (c *Client) SessionExpiresAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return time.Time{}
	}
	return c.session.ExpiresAt
}

// accessToken 需要时先刷新会话
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.expired(c.now(), ExpiryMargin) {
		if err := c.refreshLocked(ctx); err != nil {
			return "", err
		}
	}
	return c.session.AccessToken, nil
}

// ==================== 底层请求 ====================

// Request 发起一次调用
// 只要拿到 JSON 响应就返回 envelope（无论 HTTP 状态码）；不可达或非 JSON 返回 nil + *TransportError
func (c *Client) Request(ctx context.Context, ep Endpoint, payload interface{}, requireAuth bool) (*Envelope, error) {
	token := ""
	if requireAuth {
		var err error
		token, err = c.accessToken(ctx)
		if err != nil {
			return nil, err
		}
	}

	c.log.Debug("[CJ] 请求", zap.String("method", ep.Method), zap.String("path", ep.Path))
	env, err := send(ctx, c.http, ep, payload, token)
	if err != nil {
		c.log.Error("[CJ] 请求失败", zap.String("path", ep.Path), zap.Error(err))
		return nil, err
	}
	c.log.Debug("[CJ] 响应", zap.String("path", ep.Path), zap.Int("code", env.Code))
	return env, nil
}

// send 实际发送，GET 参数放 query，其余放 JSON body
func send(ctx context.Context, rc *resty.Client, ep Endpoint, payload interface{}, token string) (*Envelope, error) {
	req := rc.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json")
	if token != "" {
		req.SetHeader(HeaderAccessToken, token)
	}

	if payload != nil {
		if ep.Method == http.MethodGet {
			values, err := toQuery(payload)
			if err != nil {
				return nil, &TransportError{Endpoint: ep.Path, Err: err}
			}
			req.SetQueryParamsFromValues(values)
		} else {
			req.SetBody(payload)
		}
	}

	resp, err := req.Execute(ep.Method, ep.Path)
	if err != nil {
		return nil, &TransportError{Endpoint: ep.Path, Err: err}
	}

	var env Envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, &TransportError{
			Endpoint:   ep.Path,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("响应不是合法 JSON: %w", err),
		}
	}
	return &env, nil
}

// toQuery 把任意 payload 展平成 query 参数
func toQuery(payload interface{}) (url.Values, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]interface{}
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("GET 参数必须是对象: %w", err)
	}
	values := url.Values{}
	for k, v := range m {
		if v == nil {
			continue
		}
		values.Set(k, fmt.Sprint(v))
	}
	return values, nil
}

// call 业务调用统一入口：code != 200 视为失败
func (c *Client) call(ctx context.Context, op string, payload interface{}, out interface{}) (*Envelope, error) {
	ep := c.endpoints.Get(op)
	env, err := c.Request(ctx, ep, payload, true)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		c.log.Warn("[CJ] 接口返回失败",
			zap.String("op", op),
			zap.String("path", ep.Path),
			zap.Int("code", env.Code),
			zap.String("message", env.Message),
		)
		return nil, &RejectedError{Endpoint: ep.Path, Code: env.Code, Message: env.Message}
	}
	if out != nil {
		if err := env.Decode(out); err != nil {
			return nil, &TransportError{Endpoint: ep.Path, Err: fmt.Errorf("解析 data 失败: %w", err)}
		}
	}
	return env, nil
}

// ==================== 商品 ====================

// ListProducts 分页搜索商品
func (c *Client) ListProducts(ctx context.Context, q ListQuery) (*ProductPage, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 20
	}
	payload := map[string]interface{}{
		"pageNum":  q.Page,
		"pageSize": q.PageSize,
	}
	if q.CategoryID != "" {
		payload["categoryId"] = q.CategoryID
	}
	if q.Keyword != "" {
		payload["productNameEn"] = q.Keyword
	}

	var page ProductPage
	if _, err := c.call(ctx, OpProductList, payload, &page); err != nil {
		return nil, err
	}
	c.log.Info("[CJ] 商品列表获取成功", zap.Int("count", len(page.List)), zap.Int("page", q.Page))
	return &page, nil
}

// GetProductDetail 商品详情
func (c *Client) GetProductDetail(ctx context.Context, pid string) (*Product, error) {
	var p Product
	env, err := c.call(ctx, OpProductDetail, map[string]string{"pid": pid}, &p)
	if err != nil {
		return nil, err
	}
	if isEmptyJSON(env.Data) {
		return nil, &RejectedError{Endpoint: c.endpoints.Get(OpProductDetail).Path, Code: env.Code, Message: "商品不存在"}
	}
	return &p, nil
}

// ListCategories 类目树
func (c *Client) ListCategories(ctx context.Context) ([]CategoryGroup, error) {
	var groups []CategoryGroup
	if _, err := c.call(ctx, OpCategories, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetStock 变体库存
func (c *Client) GetStock(ctx context.Context, vid string) (*StockInfo, error) {
	var info StockInfo
	env, err := c.call(ctx, OpStock, map[string]string{"vid": vid}, &info)
	if err != nil {
		return nil, err
	}
	// 没有库存数据不能当成 0 件，否则对账会把商品清零
	if isEmptyJSON(env.Data) {
		return nil, &RejectedError{Endpoint: c.endpoints.Get(OpStock).Path, Code: env.Code, Message: "库存信息为空"}
	}
	return &info, nil
}

// ==================== 订单 ====================

// CreateOrder 创建供应商订单
func (c *Client) CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResult, error) {
	if req == nil {
		return nil, errors.New("cj: 订单请求为空")
	}
	var result OrderResult
	if _, err := c.call(ctx, OpCreateOrder, req, &result); err != nil {
		return nil, err
	}
	c.log.Info("[CJ] 订单创建成功",
		zap.String("order_number", req.OrderNumber),
		zap.String("cj_order_num", result.OrderNum),
	)
	return &result, nil
}

// GetOrderStatus 订单状态
func (c *Client) GetOrderStatus(ctx context.Context, orderNumber string) (*OrderStatus, error) {
	var status OrderStatus
	env, err := c.call(ctx, OpOrderStatus, map[string]string{"orderNum": orderNumber}, &status)
	if err != nil {
		return nil, err
	}
	if isEmptyJSON(env.Data) {
		return nil, nil
	}
	return &status, nil
}

// GetTracking 物流轨迹，没有轨迹时返回空切片
func (c *Client) GetTracking(ctx context.Context, orderNumber string) ([]TrackingInfo, error) {
	env, err := c.call(ctx, OpTracking, map[string]string{"orderNumber": orderNumber}, nil)
	if err != nil {
		return nil, err
	}
	list, err := decodeTracking(env.Data)
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoints.Get(OpTracking).Path, Err: fmt.Errorf("解析物流数据失败: %w", err)}
	}
	return list, nil
}

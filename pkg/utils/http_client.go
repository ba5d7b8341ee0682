package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// ClientOptions 供应商 HTTP 客户端参数
type ClientOptions struct {
	BaseURL  string
	Timeout  time.Duration
	ProxyURL string // 为空则直连
	Debug    bool
}

// NewSupplierClient 创建一个配置好超时、代理和调试模式的 Resty 客户端
// 它是调用供应商接口的统一网络入口，不做自动重试
func NewSupplierClient(opts ClientOptions) *resty.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	client := resty.New().
		SetDebug(opts.Debug).
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", "PrimePet-Supply/1.0").
		SetHeader("Accept", "application/json")

	if opts.BaseURL != "" {
		client.SetBaseURL(opts.BaseURL)
	}

	// 只要配置了代理地址，就挂载代理
	if opts.ProxyURL != "" {
		client.SetProxy(opts.ProxyURL)
	}

	return client
}

package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"modkeeper/internal/config"
	"modkeeper/internal/models"
)

// HTTPClient 定义HTTP客户端接口
type HTTPClient interface {
	Get(path string, params map[string]interface{}) (*HTTPResponse, error)
	Post(path string, params map[string]interface{}, data interface{}) (*HTTPResponse, error)
	Delete(path string, params map[string]interface{}) (*HTTPResponse, error)
	Close() error
}

// HTTPConfig 定义HTTP客户端配置
type HTTPConfig struct {
	Address string        // modkeeper服务侦听地址
	Network string        // unix,tcp
	Timeout time.Duration // 默认超时时间
	BaseURL string        // 基础URL
}

/**
 * Default client configuration for a server configuration
 * @param {*config.ServerConfig} cfg - Server section the daemon was started with
 * @returns {*HTTPConfig} Unix socket when the socket file exists, TCP otherwise
 */
func DefaultHTTPConfig(cfg *config.ServerConfig) *HTTPConfig {
	c := &HTTPConfig{
		Address: cfg.Socket,
		Network: "unix",
		Timeout: 5 * time.Second,
		BaseURL: "http://localhost",
	}
	// 检查socket文件是否存在
	if _, err := os.Stat(c.Address); c.Address == "" || os.IsNotExist(err) {
		c.Address = cfg.Address
		c.Network = "tcp"
	}
	if c.Address == "" {
		c.Address = "127.0.0.1:8999"
		c.Network = "tcp"
	}
	return c
}

// HTTPResponse 定义HTTP响应结构
type HTTPResponse struct {
	StatusCode int                 `json:"status_code"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body"`
	Error      string              `json:"error"`
}

// OK 判断是否成功响应
func (r *HTTPResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

/**
 * Decode a successful response body
 * @param {interface{}} v - Destination
 * @returns {error} Server error message for non-2xx responses, decode errors otherwise
 */
func (r *HTTPResponse) Decode(v interface{}) error {
	if !r.OK() {
		return fmt.Errorf("%s (status %d)", r.Error, r.StatusCode)
	}
	return json.Unmarshal(r.Body, v)
}

// buildURL 构建完整的URL
func buildURL(baseURL, path string, params map[string]interface{}) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	if u.Path == "" {
		u.Path = path
	} else {
		u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	}

	if params != nil {
		q := u.Query()
		for key, value := range params {
			switch v := value.(type) {
			case string:
				q.Set(key, v)
			case bool:
				q.Set(key, fmt.Sprintf("%t", v))
			default:
				q.Set(key, fmt.Sprintf("%v", v))
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// serializeData 序列化请求数据
func serializeData(data interface{}) (io.Reader, error) {
	if data == nil {
		return nil, nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize data: %w", err)
	}
	return bytes.NewReader(jsonData), nil
}

// deserializeResponse 反序列化响应数据
func deserializeResponse(resp *http.Response) (*HTTPResponse, error) {
	defer resp.Body.Close()
	httpResp := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	httpResp.Body = body
	if httpResp.OK() {
		return httpResp, nil
	}
	if len(body) == 0 {
		httpResp.Error = resp.Status
	} else {
		var errBody models.ErrorResponse
		if err := json.Unmarshal(body, &errBody); err != nil {
			httpResp.Error = string(body)
		} else {
			httpResp.Error = errBody.Message
		}
	}
	if httpResp.Error == "" {
		httpResp.Error = "Unknown error"
	}
	return httpResp, nil
}

package rpc

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"modkeeper/internal/logger"
)

// httpClient HTTP客户端实现
type httpClient struct {
	config    *HTTPConfig
	client    *http.Client
	transport *http.Transport
}

/**
 * Create new HTTP client talking to the daemon
 * @param {*HTTPConfig} config - Client configuration, Network "unix" dials the socket at Address
 * @returns {HTTPClient} HTTP client interface
 * @example
 * client := rpc.NewHTTPClient(rpc.DefaultHTTPConfig(&config.App().Server))
 * defer client.Close()
 * resp, err := client.Get("/modkeeper/api/v1/mods", nil)
 */
func NewHTTPClient(config *HTTPConfig) HTTPClient {
	c := &httpClient{config: config}
	dialer := &net.Dialer{}
	c.transport = &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			return dialer.DialContext(ctx, config.Network, config.Address)
		},
	}
	c.client = &http.Client{
		Transport: c.transport,
		Timeout:   config.Timeout,
	}
	return c
}

func (c *httpClient) Get(path string, params map[string]interface{}) (*HTTPResponse, error) {
	return c.do(http.MethodGet, path, params, nil)
}

func (c *httpClient) Post(path string, params map[string]interface{}, data interface{}) (*HTTPResponse, error) {
	return c.do(http.MethodPost, path, params, data)
}

func (c *httpClient) Delete(path string, params map[string]interface{}) (*HTTPResponse, error) {
	return c.do(http.MethodDelete, path, params, nil)
}

// Close 关闭空闲连接
func (c *httpClient) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}

func (c *httpClient) do(method, path string, params map[string]interface{}, data interface{}) (*HTTPResponse, error) {
	url, err := buildURL(c.config.BaseURL, path, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}
	body, err := serializeData(data)
	if err != nil {
		return nil, err
	}

	logger.Debugf("Sending %s request to %s via %s://%s", method, url, c.config.Network, c.config.Address)

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return deserializeResponse(resp)
}

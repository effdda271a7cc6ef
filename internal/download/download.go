package download

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"modkeeper/internal/models"
)

type ProgressFunc func(models.DownloadProgress)

/**
 * Downloaded payload
 * @property {[]byte} Data - Response body
 * @property {string} FileName - Server suggested file name, or the last URL path segment
 */
type Result struct {
	Data     []byte
	FileName string
}

type Client struct {
	http *http.Client
}

/**
 * Create download client
 * @param {time.Duration} timeout - Whole-request timeout, 0 for none
 * @returns {*Client} New client
 */
func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// NewClientWith 使用指定的http.Client
func NewClientWith(c *http.Client) *Client {
	return &Client{http: c}
}

/**
 * Download a URL into memory
 * @param {context.Context} ctx - Cancels the transfer
 * @param {string} rawURL - Address to fetch
 * @param {ProgressFunc} progress - Called after every chunk, may be nil
 * @returns {*Result} Payload and file name
 * @returns {error} Transport errors and non-2xx responses
 */
func (c *Client) Download(ctx context.Context, rawURL string, progress ProgressFunc) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("download '%s': %w", rawURL, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download '%s': %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("download '%s': unexpected status %s", rawURL, resp.Status)
	}

	var body io.Reader = resp.Body
	if progress != nil {
		body = &progressReader{
			r:        resp.Body,
			progress: progress,
			sample:   models.DownloadProgress{TotalBytes: resp.ContentLength},
		}
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("download '%s': %w", rawURL, err)
	}
	return &Result{Data: data, FileName: FileNameFromResponse(resp, rawURL)}, nil
}

/**
 * Determine the file name of a downloaded payload
 * @param {*http.Response} resp - Response, may be nil
 * @param {string} rawURL - Requested URL
 * @returns {string} Content-Disposition filename when present, otherwise the last URL path segment
 */
func FileNameFromResponse(resp *http.Response, rawURL string) string {
	if resp != nil {
		if cd := resp.Header.Get("Content-Disposition"); cd != "" {
			if _, params, err := mime.ParseMediaType(cd); err == nil {
				if name := strings.Trim(params["filename"], `"`); name != "" {
					return name
				}
			}
		}
	}
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return rawURL[strings.LastIndex(rawURL, "/")+1:]
}

type progressReader struct {
	r        io.Reader
	progress ProgressFunc
	sample   models.DownloadProgress
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.sample.BytesRead += int64(n)
		p.progress(p.sample)
	}
	return n, err
}

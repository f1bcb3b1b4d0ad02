package dictionary

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"signscraper/pkg/errors"
	"signscraper/pkg/logger"
)

// Client downloads entry videos from the dictionary site.
//
// The site serves video assets with an expired TLS certificate, so this
// client's transport skips certificate verification. The exception is scoped
// to this client only; nothing else in the program relaxes TLS checks.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	logger     logger.Logger
}

// NewClient creates a new download client with the given transport timeout.
func NewClient(timeout time.Duration, userAgent string, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		headers: map[string]string{
			"User-Agent": userAgent,
			"Accept":     "video/mp4,application/octet-stream;q=0.9,*/*;q=0.8",
			"Referer":    ListingURL(),
			"Connection": "keep-alive",
		},
		logger: log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.NewDownload(0, "network error: %v", err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// DownloadVideo fetches a video and returns its body for streaming to disk.
// The caller must close the returned reader. Non-2xx responses are reported
// as download errors carrying the status code.
func (c *Client) DownloadVideo(videoURL string) (io.ReadCloser, error) {
	req, err := http.NewRequest(http.MethodGet, videoURL, nil)
	if err != nil {
		return nil, errors.NewDownload(0, "failed to create request: %v", err)
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		c.logger.WarnWithFields("video request rejected", map[string]interface{}{
			"url":    videoURL,
			"status": resp.StatusCode,
		})
		return nil, errors.NewDownload(resp.StatusCode, "server returned status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// String implements fmt.Stringer for logging.
func (c *Client) String() string {
	return fmt.Sprintf("dictionary.Client(timeout=%s)", c.httpClient.Timeout)
}

// Package api предоставляет клиент удалённого API Ready-to-Eat.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Error описывает ответ удалённого API с кодом, отличным от 2xx.
// Message содержит текст, пригодный для показа пользователю.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
}

// IsStatus сообщает, что err является ошибкой удалённого API с указанным кодом.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// Client инкапсулирует HTTP-взаимодействие с удалённым API.
type Client struct {
	baseURL    string
	cookieName string
	httpClient *retryablehttp.Client
	// once не повторяет запросы: создание заказа не идемпотентно.
	once *retryablehttp.Client
}

// Option настраивает клиент.
type Option func(*Client)

// WithRetryMax задаёт число повторов запроса.
func WithRetryMax(n int) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = n
	}
}

// WithRetryWait задаёт границы ожидания между повторами.
func WithRetryWait(min, max time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryWaitMin = min
		c.httpClient.RetryWaitMax = max
	}
}

// NewClient создаёт клиент для API по указанному адресу. Учётные данные
// сессии передаются в cookie с именем cookieName.
func NewClient(baseURL, cookieName string, opts ...Option) *Client {
	base := strings.TrimRight(baseURL, "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	if cookieName == "" {
		cookieName = "session"
	}

	rc := newRetryableClient()
	rc.RetryMax = 3

	once := newRetryableClient()
	once.RetryMax = 0

	c := &Client{
		baseURL:    base,
		cookieName: cookieName,
		httpClient: rc,
		once:       once,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newRetryableClient() *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = 5 * time.Second
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = nil
	// После исчерпания повторов нужен последний ответ, чтобы вернуть текст ошибки.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return rc
}

// do выполняет запрос и декодирует JSON-ответ в out (если out не nil).
func (c *Client) do(ctx context.Context, method, path, session string, body, out any) error {
	if c == nil || c.baseURL == "" {
		return errors.New("api client not configured")
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: session})
	}

	hc := c.httpClient
	if method == http.MethodPost {
		hc = c.once
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	var payload struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

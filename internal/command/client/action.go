package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-varres/internal/command"
	"github.com/lwmacct/251207-go-pkg-varres/internal/command/server"
	"github.com/lwmacct/251207-go-pkg-varres/internal/config"
)

// ErrUsage 参数数量不正确。
var ErrUsage = errors.New("invalid arguments")

// StatusError 服务端返回非 2xx 状态。
type StatusError struct {
	Status int
	Body   server.ErrorResponse
}

func (e *StatusError) Error() string {
	if e.Body.Error == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}

	return fmt.Sprintf("server returned %d (%s): %s", e.Status, e.Body.Kind, e.Body.Error)
}

// Client 带重试的服务端客户端。
type Client struct {
	baseURL string
	retries int
	backoff time.Duration
	http    *http.Client
}

// New 按客户端配置创建 Client。
func New(cfg config.ClientConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		retries: max(cfg.Retries, 0),
		backoff: 200 * time.Millisecond,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Health 检查服务状态。
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Resolve 在服务端解析 text。
func (c *Client) Resolve(ctx context.Context, text string) (string, error) {
	var resp server.ResolveRequest
	if err := c.do(ctx, http.MethodPost, "/resolve", server.ResolveRequest{Text: &text}, &resp); err != nil {
		return "", err
	}
	if resp.Text == nil {
		return "", errors.New("response has no text")
	}

	return *resp.Text, nil
}

// Var 在服务端查询变量 name 的解析结果。
func (c *Client) Var(ctx context.Context, name string) (string, error) {
	var resp server.VarResponse
	if err := c.do(ctx, http.MethodGet, "/vars/"+url.PathEscape(name), nil, &resp); err != nil {
		return "", err
	}

	return resp.Value, nil
}

// do 发送请求，网络错误与 5xx 响应会按线性退避重试。
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			slog.Debug("Retrying request", "method", method, "path", path, "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * c.backoff):
			}
		}

		retry, err := c.once(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
	}

	return fmt.Errorf("after %d attempts: %w", c.retries+1, lastErr)
}

func (c *Client) once(ctx context.Context, method, path string, payload []byte, out any) (bool, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ctx.Err() == nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{Status: resp.StatusCode}
		_ = json.Unmarshal(data, &statusErr.Body)

		return resp.StatusCode >= 500, statusErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return false, fmt.Errorf("decode response: %w", err)
		}
	}

	return false, nil
}

func newClient(cmd *cli.Command) (*Client, error) {
	cfg, err := command.Load(cmd)
	if err != nil {
		return nil, err
	}

	return New(cfg.Client), nil
}

func healthAction(ctx context.Context, cmd *cli.Command) error {
	c, err := newClient(cmd)
	if err != nil {
		return err
	}
	if err := c.Health(ctx); err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, "ok")

	return err
}

func resolveAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("%w: resolve requires TEXT", ErrUsage)
	}

	c, err := newClient(cmd)
	if err != nil {
		return err
	}
	for _, text := range cmd.Args().Slice() {
		resolved, err := c.Resolve(ctx, text)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(cmd.Root().Writer, resolved); err != nil {
			return err
		}
	}

	return nil
}

func varAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("%w: var requires exactly one NAME", ErrUsage)
	}

	c, err := newClient(cmd)
	if err != nil {
		return err
	}
	value, err := c.Var(ctx, cmd.Args().First())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, value)

	return err
}

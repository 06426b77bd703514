package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lwmacct/251207-go-pkg-varres/internal/metrics"
	"github.com/lwmacct/251207-go-pkg-varres/pkg/varres"
)

// RequestIDHeader 请求 ID 头，客户端未提供时由服务端生成。
const RequestIDHeader = "X-Request-ID"

const maxBodyBytes = 1 << 20

// ResolveRequest POST /resolve 的请求体，至少需要一个字段。
//
// 响应体结构相同，只包含请求中出现的字段。
type ResolveRequest struct {
	Text   *string           `json:"text,omitempty"`
	Items  []string          `json:"items,omitempty"`
	Values map[string]string `json:"values,omitempty"`
}

// VarResponse GET /vars/{name} 的响应体。
type VarResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ErrorResponse 错误响应体，Kind 与 metrics 的 outcome 标签一致，请求错误为 "request"。
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id,omitempty"`
}

// KindRequest 请求格式错误。
const KindRequest = "request"

type handler struct {
	resolver *varres.Resolver
	metrics  *metrics.Metrics
}

// NewHandler 返回服务路由。m 为 nil 时不暴露 /metrics 也不记录指标。
func NewHandler(resolver *varres.Resolver, m *metrics.Metrics) http.Handler {
	h := &handler{resolver: resolver, metrics: m}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /resolve", h.resolve)
	mux.HandleFunc("GET /vars/{name}", h.variable)
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	return withRequestID(mux)
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) resolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, KindRequest, err)

		return
	}
	if req.Text == nil && req.Items == nil && req.Values == nil {
		writeError(w, r, http.StatusBadRequest, KindRequest, errors.New("one of text, items or values is required"))

		return
	}

	var resp ResolveRequest
	if req.Text != nil {
		text, err := observe(h, "text", func() (string, error) { return h.resolver.Resolve(*req.Text) })
		if err != nil {
			writeResolveError(w, r, err)

			return
		}
		resp.Text = &text
	}
	if req.Items != nil {
		items, err := observe(h, "items", func() ([]string, error) { return h.resolver.ResolveSlice(req.Items) })
		if err != nil {
			writeResolveError(w, r, err)

			return
		}
		resp.Items = items
	}
	if req.Values != nil {
		values, err := observe(h, "values", func() (map[string]string, error) { return h.resolver.ResolveMap(req.Values) })
		if err != nil {
			writeResolveError(w, r, err)

			return
		}
		resp.Values = values
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) variable(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	value, err := observe(h, "value", func() (string, error) { return h.resolver.Value(name) })
	if err != nil {
		writeResolveError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, VarResponse{Name: name, Value: value})
}

// observe 执行 fn 并记录耗时与结果。
func observe[T any](h *handler, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	if h.metrics != nil {
		h.metrics.ObserveResolve(op, err, time.Since(start))
	}

	return v, err
}

// writeResolveError 解析错误返回 422，GET 查询变量不存在时返回 404。
func writeResolveError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusUnprocessableEntity
	kind := metrics.Outcome(err)
	if kind == metrics.OutcomeMissing && r.Method == http.MethodGet {
		status = http.StatusNotFound
	}

	writeError(w, r, status, kind, err)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, kind string, err error) {
	id := requestID(r.Context())
	slog.Warn("Request failed", "request_id", id, "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind, RequestID: id})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

type requestIDKey struct{}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)

	return id
}

// withRequestID 为每个请求分配 ID，写入响应头与 context，并记录访问日志。
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		slog.Debug("Request handled", "request_id", id, "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

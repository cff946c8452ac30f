package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	kitDto "labtrack_backend/internals/features/kits/dto"
	sampleDto "labtrack_backend/internals/features/samples/dto"
	sampleService "labtrack_backend/internals/features/samples/service"
	authService "labtrack_backend/internals/features/users/auth/service"
	helper "labtrack_backend/internals/helpers"
)

// APIError: envelope {error} dari server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}

type envelope[T any] struct {
	Data  T      `json:"data"`
	Count *int   `json:"count,omitempty"`
	Error string `json:"error,omitempty"`
}

// Client: klien HTTP untuk /api (dipakai lapisan form & autosave)
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

func New(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(3*time.Second).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: hc, logger: logger}
}

// SetToken: dipasang otomatis oleh Login
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

func do[T any](ctx context.Context, c *Client, method, path string, body any, query map[string]string) (T, *int, error) {
	var (
		env  envelope[T]
		zero T
	)
	req := c.http.R().SetContext(ctx).SetResult(&env).SetError(&env)
	if body != nil {
		req.SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Error("api call failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return zero, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		c.logger.Debug("api error", zap.String("path", path), zap.Int("status", resp.StatusCode()), zap.String("error", msg))
		return zero, nil, &APIError{Status: resp.StatusCode(), Message: msg}
	}
	return env.Data, env.Count, nil
}

/* ===================== AUTH ===================== */

func (c *Client) Login(ctx context.Context, email, password string) (*authService.LoginResult, error) {
	res, _, err := do[authService.LoginResult](ctx, c, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, nil)
	if err != nil {
		return nil, err
	}
	c.SetToken(res.AccessToken)
	return &res, nil
}

/* ===================== KITS ===================== */

func (c *Client) Availability(ctx context.Context, kitTypeID *uuid.UUID) ([]kitDto.AvailabilityItem, error) {
	var q map[string]string
	if kitTypeID != nil {
		q = map[string]string{"kit_type_id": kitTypeID.String()}
	}
	items, _, err := do[[]kitDto.AvailabilityItem](ctx, c, http.MethodGet, "/api/kits/availability", nil, q)
	return items, err
}

func (c *Client) BulkCreate(ctx context.Context, req kitDto.BulkCreateRequest) (*kitDto.BulkCreateResponse, error) {
	res, _, err := do[kitDto.BulkCreateResponse](ctx, c, http.MethodPost, "/api/kits/bulk-create", req, nil)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) BulkAdjust(ctx context.Context, req kitDto.BulkAdjustRequest) (*kitDto.BulkAdjustResponse, error) {
	res, _, err := do[kitDto.BulkAdjustResponse](ctx, c, http.MethodPost, "/api/kits/bulk-adjust", req, nil)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

/* ===================== SAMPLES ===================== */

func (c *Client) NextCode(ctx context.Context, receivedAt time.Time) (*sampleDto.NextCodeResponse, error) {
	res, _, err := do[sampleDto.NextCodeResponse](ctx, c, http.MethodGet, "/api/samples/next-code", nil,
		map[string]string{"receivedAt": helper.FormatDate(receivedAt)})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CreateSample(ctx context.Context, req sampleDto.CreateSampleRequest) (*sampleDto.SampleResponse, error) {
	res, _, err := do[sampleDto.SampleResponse](ctx, c, http.MethodPost, "/api/samples", req, nil)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateSample: patch hanya berisi field yang berubah; nil = kosongkan field
func (c *Client) UpdateSample(ctx context.Context, id uuid.UUID, patch map[string]any) (*sampleDto.SampleResponse, error) {
	res, _, err := do[sampleDto.SampleResponse](ctx, c, http.MethodPatch, "/api/samples/"+id.String(), patch, nil)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ReplaceResults(ctx context.Context, id uuid.UUID, req sampleDto.ReplaceResultsRequest) ([]sampleDto.ResultResponse, int, error) {
	rows, count, err := do[[]sampleDto.ResultResponse](ctx, c, http.MethodPatch, "/api/samples/"+id.String()+"/results", req, nil)
	if err != nil {
		return nil, 0, err
	}
	n := len(rows)
	if count != nil {
		n = *count
	}
	return rows, n, nil
}

func (c *Client) ReportMessage(ctx context.Context, id uuid.UUID) (*sampleService.Report, error) {
	res, _, err := do[sampleService.Report](ctx, c, http.MethodGet, "/api/samples/"+id.String()+"/report-message", nil, nil)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

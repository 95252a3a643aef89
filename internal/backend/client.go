package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zombiebrand/adminconsole/internal/api"
	"github.com/zombiebrand/adminconsole/internal/article"
)

// RequestIDHeader tags every request so server logs can be correlated.
const RequestIDHeader = "X-Request-ID"

// Client talks to a remote adminconsole server. Non-OK envelopes come back
// as results; network failures and undecodable bodies are errors.
type Client struct {
	http *resty.Client
	log  logrus.FieldLogger
}

func NewClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get(RequestIDHeader) == "" {
			r.SetHeader(RequestIDHeader, uuid.NewString())
		}
		return nil
	})
	return &Client{http: rc, log: log.WithField("component", "client")}
}

func (c *Client) GetArticle(ctx context.Context, id string) (api.Result[article.Draft], error) {
	return call[article.Draft](ctx, c, c.http.R().SetQueryParam("id", id), http.MethodGet, "/article/detail")
}

func (c *Client) CreateArticle(ctx context.Context, d article.Draft) (api.Result[api.Empty], error) {
	return call[api.Empty](ctx, c, c.http.R().SetBody(d), http.MethodPost, "/article")
}

func (c *Client) UpdateArticle(ctx context.Context, id string, d article.Draft) (api.Result[api.Empty], error) {
	return call[api.Empty](ctx, c, c.http.R().SetPathParam("id", id).SetBody(d), http.MethodPut, "/article/{id}")
}

func (c *Client) ListArticles(ctx context.Context, q api.PageQuery) (api.Result[api.Page[api.ArticleSummary]], error) {
	q = q.Normalize()
	req := c.http.R().SetQueryParams(map[string]string{
		"page":     strconv.Itoa(q.Page),
		"pageSize": strconv.Itoa(q.PageSize),
	})
	return call[api.Page[api.ArticleSummary]](ctx, c, req, http.MethodGet, "/article/page")
}

func (c *Client) DataTrends(ctx context.Context, q api.TrendQuery) (api.Result[api.Dashboard], error) {
	req := c.http.R()
	if q.Days > 0 {
		req.SetQueryParam("days", strconv.Itoa(q.Days))
	}
	return call[api.Dashboard](ctx, c, req, http.MethodGet, "/dashboard")
}

func call[T any](ctx context.Context, c *Client, req *resty.Request, method, path string) (api.Result[T], error) {
	var out api.Result[T]
	resp, err := req.SetContext(ctx).SetResult(&out).SetError(&out).Execute(method, path)
	if err != nil {
		return api.Result[T]{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if out.Code == 0 {
		return api.Result[T]{}, fmt.Errorf("%s %s: unexpected response %s", method, path, resp.Status())
	}
	c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"code":       out.Code,
		"request_id": resp.Request.Header.Get(RequestIDHeader),
		"elapsed":    resp.Time(),
	}).Debug("request")
	return out, nil
}

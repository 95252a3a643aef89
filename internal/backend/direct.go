package backend

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/zombiebrand/adminconsole/internal/api"
	"github.com/zombiebrand/adminconsole/internal/article"
	"github.com/zombiebrand/adminconsole/internal/service"
)

// Direct serves the envelope straight from the service layer. Service
// failures become non-OK codes; only context errors surface as errors.
type Direct struct {
	Articles  *service.ArticleService
	Dashboard *service.DashboardService
	Log       logrus.FieldLogger
}

func (d *Direct) GetArticle(ctx context.Context, id string) (api.Result[article.Draft], error) {
	a, err := d.Articles.Get(ctx, id)
	if err != nil {
		return fail[article.Draft](d.Log, "get article", err)
	}
	return api.Success(DraftFrom(a), ""), nil
}

func (d *Direct) CreateArticle(ctx context.Context, draft article.Draft) (api.Result[api.Empty], error) {
	if _, err := d.Articles.Create(ctx, inputFrom(draft)); err != nil {
		return fail[api.Empty](d.Log, "create article", err)
	}
	return api.Success(api.Empty{}, ""), nil
}

func (d *Direct) UpdateArticle(ctx context.Context, id string, draft article.Draft) (api.Result[api.Empty], error) {
	if _, err := d.Articles.Update(ctx, id, inputFrom(draft)); err != nil {
		return fail[api.Empty](d.Log, "update article", err)
	}
	return api.Success(api.Empty{}, ""), nil
}

func (d *Direct) ListArticles(ctx context.Context, q api.PageQuery) (api.Result[api.Page[api.ArticleSummary]], error) {
	q = q.Normalize()
	items, total, err := d.Articles.List(ctx, q.Page, q.PageSize)
	if err != nil {
		return fail[api.Page[api.ArticleSummary]](d.Log, "list articles", err)
	}
	page := api.Page[api.ArticleSummary]{Items: make([]api.ArticleSummary, 0, len(items)), Total: total, Page: q.Page, PageSize: q.PageSize}
	for _, a := range items {
		page.Items = append(page.Items, summaryFrom(a))
	}
	return api.Success(page, ""), nil
}

func (d *Direct) DataTrends(ctx context.Context, q api.TrendQuery) (api.Result[api.Dashboard], error) {
	tr, err := d.Dashboard.Trends(ctx, q.Days)
	if err != nil {
		return fail[api.Dashboard](d.Log, "data trends", err)
	}
	out := api.Dashboard{Total: tr.Total, Trends: make([]api.TrendPoint, 0, len(tr.Days))}
	for _, day := range tr.Days {
		out.Trends = append(out.Trends, api.TrendPoint{Day: day.Day, Count: day.Count})
	}
	return api.Success(out, ""), nil
}

func fail[T any](log logrus.FieldLogger, op string, err error) (api.Result[T], error) {
	if canceled(err) {
		return api.Result[T]{}, err
	}
	code := CodeFor(err)
	if log != nil && code == api.CodeInternal {
		log.WithError(err).WithField("op", op).Error("backend failure")
	}
	return api.Failure[T](code, err.Error()), nil
}

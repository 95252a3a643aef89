// Package backend provides the console's data sources: an in-process adapter
// over the service layer and a remote HTTP client. Both speak the api
// envelope, so the console cannot tell them apart.
package backend

import (
	"context"
	"errors"

	"github.com/zombiebrand/adminconsole/internal/api"
	"github.com/zombiebrand/adminconsole/internal/article"
	"github.com/zombiebrand/adminconsole/internal/database/repository"
	"github.com/zombiebrand/adminconsole/internal/service"
)

// Backend is everything the console reads and writes.
type Backend interface {
	article.Backend
	ListArticles(ctx context.Context, q api.PageQuery) (api.Result[api.Page[api.ArticleSummary]], error)
	DataTrends(ctx context.Context, q api.TrendQuery) (api.Result[api.Dashboard], error)
}

// CodeFor maps a service error to an envelope code.
func CodeFor(err error) int {
	switch {
	case err == nil:
		return api.CodeOK
	case errors.Is(err, service.ErrNotFound):
		return api.CodeNotFound
	case errors.Is(err, service.ErrInvalid):
		return api.CodeBadRequest
	default:
		return api.CodeInternal
	}
}

// DraftFrom converts a stored article to the form payload.
func DraftFrom(a repository.Article) article.Draft {
	keys := append([]string{}, a.TransferKeys...)
	return article.Draft{ID: a.ID, Content: a.Content, TransferredKeys: keys}
}

func inputFrom(d article.Draft) service.ArticleInput {
	return service.ArticleInput{Content: d.Content, TransferKeys: d.TransferredKeys}
}

func summaryFrom(a repository.Article) api.ArticleSummary {
	return api.ArticleSummary{
		ID:            a.ID,
		Content:       a.Content,
		TransferCount: len(a.TransferKeys),
		UpdatedAt:     a.UpdatedAt,
	}
}

func canceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

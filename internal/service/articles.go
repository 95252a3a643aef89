package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/zombiebrand/adminconsole/internal/database/repository"
)

var (
	// ErrNotFound is returned when an article id has no row.
	ErrNotFound = errors.New("article not found")
	// ErrInvalid is returned for input the store refuses.
	ErrInvalid = errors.New("invalid article input")
)

// ArticleInput carries the editable article fields.
type ArticleInput struct {
	Content      string
	TransferKeys []string
}

func (in ArticleInput) normalize() (ArticleInput, error) {
	if strings.TrimSpace(in.Content) == "" {
		return in, fmt.Errorf("%w: content is required", ErrInvalid)
	}
	seen := make(map[string]bool, len(in.TransferKeys))
	keys := make([]string, 0, len(in.TransferKeys))
	for _, k := range in.TransferKeys {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	in.TransferKeys = keys
	return in, nil
}

// ArticleService implements article CRUD over the repository.
type ArticleService struct {
	Articles *repository.ArticleRepo
	NewID    func() string
}

func (s *ArticleService) Get(ctx context.Context, id string) (repository.Article, error) {
	a, err := s.Articles.Get(ctx, id)
	if err != nil {
		return repository.Article{}, fmt.Errorf("get article %s: %w", id, err)
	}
	if a == nil {
		return repository.Article{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *a, nil
}

func (s *ArticleService) Create(ctx context.Context, in ArticleInput) (repository.Article, error) {
	in, err := in.normalize()
	if err != nil {
		return repository.Article{}, err
	}
	id := uuid.NewString()
	if s.NewID != nil {
		id = s.NewID()
	}
	a := repository.Article{ID: id, Content: in.Content, TransferKeys: in.TransferKeys}
	if err := s.Articles.Upsert(ctx, a); err != nil {
		return repository.Article{}, fmt.Errorf("create article: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *ArticleService) Update(ctx context.Context, id string, in ArticleInput) (repository.Article, error) {
	if strings.TrimSpace(id) == "" {
		return repository.Article{}, fmt.Errorf("%w: id is required", ErrInvalid)
	}
	in, err := in.normalize()
	if err != nil {
		return repository.Article{}, err
	}
	found, err := s.Articles.Update(ctx, id, in.Content, in.TransferKeys)
	if err != nil {
		return repository.Article{}, fmt.Errorf("update article %s: %w", id, err)
	}
	if !found {
		return repository.Article{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.Get(ctx, id)
}

// List returns page (1-based) of size pageSize and the total count.
func (s *ArticleService) List(ctx context.Context, page, pageSize int) ([]repository.Article, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	items, total, err := s.Articles.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	return items, total, nil
}

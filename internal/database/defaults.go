package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zombiebrand/adminconsole/internal/database/repository"
)

var demoArticles = []struct {
	content string
	keys    []string
	daysAgo int
}{
	{"<h4>Welcome</h4><p>First article of the console.</p>", []string{"1", "2"}, 6},
	{"<p>Release notes for the spring update.</p>", []string{"11", "12", "13"}, 4},
	{"<p>Editorial guidelines.</p>", nil, 4},
	{"<p>How tabs work in the console.</p>", []string{"5"}, 2},
	{"<p>Draft: roadmap.</p>", []string{"17", "18"}, 0},
}

// SeedID derives the stable id of the n-th demo article.
func SeedID(n int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("article:%d", n))).String()
}

// SeedDefaults inserts demo articles into an empty database.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	repo := repository.NewArticleRepo(db)
	n, err := repo.Count(ctx)
	if err == nil && n > 0 {
		return nil
	}
	today := Now().Truncate(24 * time.Hour).Add(9 * time.Hour)
	for i, a := range demoArticles {
		at := today.AddDate(0, 0, -a.daysAgo).Add(time.Duration(i) * time.Minute)
		art := repository.Article{
			ID:           SeedID(i),
			Content:      a.content,
			TransferKeys: a.keys,
			CreatedAt:    at,
			UpdatedAt:    at,
		}
		if err := repo.Upsert(ctx, art); err != nil {
			return fmt.Errorf("seed article %d: %w", i, err)
		}
	}
	return nil
}

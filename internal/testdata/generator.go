// Package testdata generates sample articles for demos and load checks.
package testdata

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/zombiebrand/adminconsole/internal/database/repository"
)

var headlines = []string{
	"Quarterly update",
	"Editorial calendar",
	"Product launch notes",
	"Community spotlight",
	"Incident review",
	"Style guide changes",
}

// Options controls Generate. Days spreads creation times over the last
// Days days; TransferPool is the number of transfer keys to draw from.
type Options struct {
	Count        int
	Days         int
	TransferPool int
	Now          time.Time
	Rand         *rand.Rand
}

// Generate inserts opts.Count random articles and returns their ids.
func Generate(ctx context.Context, repo *repository.ArticleRepo, opts Options) ([]string, error) {
	if opts.Days < 1 {
		opts.Days = 7
	}
	if opts.TransferPool < 1 {
		opts.TransferPool = 20
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Now.UnixNano()))
	}

	ids := make([]string, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		at := opts.Now.Add(-time.Duration(rng.Intn(opts.Days*24*60)) * time.Minute).Truncate(time.Second)
		a := repository.Article{
			ID:           uuid.NewString(),
			Content:      fmt.Sprintf("<h4>%s</h4><p>Sample %d</p>", headlines[rng.Intn(len(headlines))], i+1),
			TransferKeys: pickKeys(rng, opts.TransferPool),
			CreatedAt:    at,
			UpdatedAt:    at,
		}
		if err := repo.Upsert(ctx, a); err != nil {
			return ids, fmt.Errorf("generate article %d: %w", i, err)
		}
		ids = append(ids, a.ID)
	}
	return ids, nil
}

func pickKeys(rng *rand.Rand, pool int) []string {
	n := rng.Intn(min(4, pool+1))
	seen := make(map[int]bool, n)
	for len(seen) < n {
		seen[rng.Intn(pool)] = true
	}
	keys := make([]int, 0, n)
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]string, 0, n)
	for _, k := range keys {
		out = append(out, strconv.Itoa(k))
	}
	return out
}

// Package article implements the article create/edit screen controller:
// permission gating, record loading, tab registration, menu sync and
// submission with close-and-navigate.
package article

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/zombiebrand/adminconsole/internal/api"
)

const (
	// FatherPath is the listing route; menu ancestry and the close fallback use it.
	FatherPath = "/content/article"
	// PermissionPrefix is joined with "/create" or "/update" for capability checks.
	PermissionPrefix = "/content/article"
	// RoutePath is the create/edit screen; edit mode carries ?id=.
	RoutePath = "/content/article/option"
)

const defaultContent = "<h4>初始化内容</h4>"

// Draft is the record backing the form. An empty ID means create mode.
type Draft struct {
	ID              string   `json:"id"`
	Content         string   `json:"content" validate:"required"`
	TransferredKeys []string `json:"transfer" validate:"dive,required"`
}

// Clone returns a copy that shares no slice storage with d.
func (d Draft) Clone() Draft {
	if d.TransferredKeys != nil {
		d.TransferredKeys = append([]string(nil), d.TransferredKeys...)
	}
	return d
}

// Equal compares field by field, treating nil and empty key lists alike.
func (d Draft) Equal(o Draft) bool {
	if d.ID != o.ID || d.Content != o.Content || len(d.TransferredKeys) != len(o.TransferredKeys) {
		return false
	}
	for i := range d.TransferredKeys {
		if d.TransferredKeys[i] != o.TransferredKeys[i] {
			return false
		}
	}
	return true
}

// TransferItem is one selectable entry of the related-items field.
type TransferItem struct {
	Key         string
	Title       string
	Description string
}

// TransferSource lists the items the transfer field offers.
func TransferSource() []TransferItem {
	items := make([]TransferItem, 20)
	for i := range items {
		n := strconv.Itoa(i + 1)
		items[i] = TransferItem{
			Key:         strconv.Itoa(i),
			Title:       "content" + n,
			Description: "description of content" + n,
		}
	}
	return items
}

// DefaultDraft seeds the create form.
func DefaultDraft() Draft {
	var keys []string
	for _, it := range TransferSource() {
		if n, _ := strconv.Atoi(it.Key); n > 10 {
			keys = append(keys, it.Key)
		}
	}
	return Draft{Content: defaultContent, TransferredKeys: keys}
}

// Backend is the record store the controller talks to.
type Backend interface {
	GetArticle(ctx context.Context, id string) (api.Result[Draft], error)
	CreateArticle(ctx context.Context, d Draft) (api.Result[api.Empty], error)
	UpdateArticle(ctx context.Context, id string, d Draft) (api.Result[api.Empty], error)
}

// RouteFor builds the screen URI for id; an empty id is the create route.
func RouteFor(id string) string {
	if strings.TrimSpace(id) == "" {
		return RoutePath
	}
	return RoutePath + "?" + url.Values{"id": {id}}.Encode()
}

// SplitURI returns the path of uri and its id query parameter.
func SplitURI(uri string) (path, id string) {
	u, err := url.Parse(uri)
	if err != nil {
		path, _, _ = strings.Cut(uri, "?")
		return path, ""
	}
	return u.Path, u.Query().Get("id")
}

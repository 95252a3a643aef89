// Package i18n provides the console's message catalog and a translator bound
// to one locale.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var supported = []language.Tag{language.English, language.Chinese}

var messages = map[string]map[language.Tag]string{
	"dashboard.title":            {language.English: "Dashboard", language.Chinese: "数据总览"},
	"dashboard.trends":           {language.English: "Articles per day", language.Chinese: "每日文章"},
	"dashboard.total":            {language.English: "Total articles: %d", language.Chinese: "文章总数：%d"},
	"content.contentTitle":       {language.English: "Content", language.Chinese: "内容管理"},
	"content.articleTitle":       {language.English: "Article", language.Chinese: "文章管理"},
	"content.content":            {language.English: "Content", language.Chinese: "内容"},
	"content.transfer":           {language.English: "Related items", language.Chinese: "关联内容"},
	"content.empty":              {language.English: "No articles yet", language.Chinese: "暂无文章"},
	"content.updatedAt":          {language.English: "Updated", language.Chinese: "更新时间"},
	"content.transferCount":      {language.English: "Related", language.Chinese: "关联数"},
	"public.page":                {language.English: "Page %d of %d", language.Chinese: "第 %d / %d 页"},
	"public.create":              {language.English: "Create %s", language.Chinese: "新增%s"},
	"public.edit":                {language.English: "Edit %s (%s)", language.Chinese: "编辑%s(%s)"},
	"public.successfulOperation": {language.English: "Operation successful", language.Chinese: "操作成功"},
	"public.noPermission":        {language.English: "You do not have permission to view this page", language.Chinese: "暂无权限访问该页面"},
	"public.loading":             {language.English: "Loading…", language.Chinese: "加载中…"},
	"public.submit":              {language.English: "Submit", language.Chinese: "提交"},
	"public.back":                {language.English: "Back", language.Chinese: "返回"},
	"public.goto":                {language.English: "Go to", language.Chinese: "跳转"},
	"public.validationFailed":    {language.English: "Please fill in the required fields", language.Chinese: "请填写必填项"},
	"public.submitInFlight":      {language.English: "Submission already in progress", language.Chinese: "正在提交中"},
	"public.requestFailed":       {language.English: "Request failed: %s", language.Chinese: "请求失败：%s"},
	"public.notFound":            {language.English: "No page for %s", language.Chinese: "页面不存在：%s"},
}

var cat = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, byTag := range messages {
		for tag, msg := range byTag {
			if err := b.SetString(tag, key, msg); err != nil {
				panic("i18n: " + key + ": " + err.Error())
			}
		}
	}
	return b
}

var matcher = language.NewMatcher(supported)

// Supported lists the locale codes the catalog carries.
func Supported() []string {
	out := make([]string, 0, len(supported))
	for _, t := range supported {
		out = append(out, Code(t))
	}
	return out
}

// Code returns the short locale code used in config and tab labels.
func Code(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

// Translator looks up messages for one locale.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New resolves locale ("en", "zh-CN", ...) to the closest supported tag.
func New(locale string) *Translator {
	tag := language.English
	if parsed, err := language.Parse(strings.TrimSpace(locale)); err == nil {
		_, idx, conf := matcher.Match(parsed)
		if conf != language.No {
			tag = supported[idx]
		}
	}
	return &Translator{tag: tag, printer: message.NewPrinter(tag, message.Catalog(cat))}
}

// Locale returns the short code of the bound locale.
func (t *Translator) Locale() string { return Code(t.tag) }

// T translates key. Unknown keys are returned unchanged.
func (t *Translator) T(key string, args ...any) string {
	return t.printer.Sprintf(message.Key(key, key), args...)
}

// Next returns a translator for the locale after this one in Supported order.
func (t *Translator) Next() *Translator {
	codes := Supported()
	for i, c := range codes {
		if c == t.Locale() {
			return New(codes[(i+1)%len(codes)])
		}
	}
	return New(codes[0])
}

// AddTitle builds the create-screen title, e.g. "Create Article".
func AddTitle(t *Translator, title string) string {
	return t.T("public.create", title)
}

// EditTitle builds the edit-screen title, e.g. "Edit Article (7)".
func EditTitle(t *Translator, id, title string) string {
	return t.T("public.edit", title, id)
}

// FilterNav drops empty breadcrumb items.
func FilterNav(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			out = append(out, it)
		}
	}
	return out
}

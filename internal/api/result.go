// Package api holds the wire envelope shared by the HTTP backend and its
// clients, plus the list and dashboard payloads.
package api

import "time"

// Response codes carried in the envelope. Only CodeOK counts as success.
const (
	CodeOK         = 200
	CodeBadRequest = 400
	CodeForbidden  = 403
	CodeNotFound   = 404
	CodeInternal   = 500
)

// Result is the {code, message, data} envelope every endpoint returns.
type Result[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// OK reports whether the code is exactly CodeOK.
func (r Result[T]) OK() bool { return r.Code == CodeOK }

func Success[T any](data T, message string) Result[T] {
	return Result[T]{Code: CodeOK, Message: message, Data: data}
}

func Failure[T any](code int, message string) Result[T] {
	return Result[T]{Code: code, Message: message}
}

// Empty is the data payload of endpoints that only report an outcome.
type Empty struct{}

// PageQuery selects one page of a listing. Page is 1-based.
type PageQuery struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Normalize clamps the query to sane bounds.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.PageSize <= 0:
		q.PageSize = 20
	case q.PageSize > 100:
		q.PageSize = 100
	}
	return q
}

func (q PageQuery) Offset() int { return (q.Page - 1) * q.PageSize }

type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

type ArticleSummary struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	TransferCount int       `json:"transferCount"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type TrendQuery struct {
	Days int `json:"days"`
}

type TrendPoint struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type Dashboard struct {
	Total  int          `json:"total"`
	Trends []TrendPoint `json:"trends"`
}

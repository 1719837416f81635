// Package payload implements the response envelope shared by every endpoint:
// {success, message, data?, meta?}.
package payload

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta carries pagination metadata for list endpoints.
type Meta struct {
	Page     int  `json:"page"`
	Limit    int  `json:"limit"`
	Total    int  `json:"total"`
	NextPage *int `json:"next_page"`
	PrevPage *int `json:"prev_page"`
}

// NewMeta computes pagination metadata. next_page is null once the current
// page covers the total; prev_page is null on the first page.
func NewMeta(page, limit, total int) *Meta {
	m := &Meta{Page: page, Limit: limit, Total: total}
	if total > page*limit {
		next := page + 1
		m.NextPage = &next
	}
	if page > 1 {
		prev := page - 1
		m.PrevPage = &prev
	}
	return m
}

// JSON writes a success envelope without pagination metadata.
func JSON(c echo.Context, status int, message string, data interface{}) error {
	return errors.WithStack(c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	}))
}

// JSONWithMeta writes a success envelope for paginated list responses.
func JSONWithMeta(c echo.Context, status int, message string, data interface{}, meta *Meta) error {
	return errors.WithStack(c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}))
}

package handler // handler defines http handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Meta is the pagination block attached to every list response.
type Meta struct {
	TotalCount  int64 `json:"totalCount"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
}

// Envelope is the response wrapper used by all read endpoints:
// {success, data, meta} with meta present only on list responses.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Meta    *Meta       `json:"meta,omitempty"`
}

func ok(data interface{}) Envelope { return Envelope{Success: true, Data: data} }

func okList(data interface{}, total int64, page, size int) Envelope {
	pages := int(total) / size
	if int(total)%size != 0 {
		pages++
	}
	return Envelope{Success: true, Data: data, Meta: &Meta{
		TotalCount:  total,
		CurrentPage: page,
		TotalPages:  pages,
	}}
}

// errPagination is returned when pageSize/pageNumber are present but not
// positive integers; handlers translate it into a 400.
var errPagination = errors.New("pageSize and pageNumber must be positive integers")

// parsePagination reads the pageNumber/pageSize query parameters.  Both
// default (page 1, size 20) when absent; when present they must be
// positive integers.  Page size is capped at 100.
func parsePagination(c echo.Context) (page, size int, err error) {
	page, size = 1, 20
	if s := c.QueryParam("pageNumber"); s != "" {
		n, convErr := strconv.Atoi(s)
		if convErr != nil || n < 1 {
			return 0, 0, errPagination
		}
		page = n
	}
	if s := c.QueryParam("pageSize"); s != "" {
		n, convErr := strconv.Atoi(s)
		if convErr != nil || n < 1 {
			return 0, 0, errPagination
		}
		size = n
	}
	if size > 100 {
		size = 100
	}
	return page, size, nil
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// claimUint64 extracts a numeric JWT claim stored in the echo context.
// MapClaims store numbers as float64; tokens minted by tests may store
// native integer types.
func claimUint64(c echo.Context, key string) (uint64, error) {
	switch t := c.Get(key).(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid " + key + " in context")
}

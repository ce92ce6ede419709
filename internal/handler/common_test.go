package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paginationContext(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/venues/1/orders?"+query, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
		wantErr  bool
	}{
		{"defaults when absent", "", 1, 20, false},
		{"explicit values", "pageNumber=3&pageSize=50", 3, 50, false},
		{"size capped at 100", "pageSize=500", 1, 100, false},
		{"zero page rejected", "pageNumber=0", 0, 0, true},
		{"negative size rejected", "pageSize=-5", 0, 0, true},
		{"non-numeric rejected", "pageNumber=abc", 0, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, size, err := parsePagination(paginationContext(tc.query))
			if tc.wantErr {
				require.ErrorIs(t, err, errPagination)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantPage, page)
			assert.Equal(t, tc.wantSize, size)
		})
	}
}

func TestOkListMeta(t *testing.T) {
	env := okList([]int{1, 2, 3}, 45, 2, 20)
	require.NotNil(t, env.Meta)
	assert.True(t, env.Success)
	assert.Equal(t, int64(45), env.Meta.TotalCount)
	assert.Equal(t, 2, env.Meta.CurrentPage)
	assert.Equal(t, 3, env.Meta.TotalPages)

	// Exact multiple needs no extra page.
	env = okList([]int{}, 40, 1, 20)
	assert.Equal(t, 2, env.Meta.TotalPages)

	// Empty result set.
	env = okList([]int{}, 0, 1, 20)
	assert.Equal(t, 0, env.Meta.TotalPages)
}

func TestPathID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("42")

	id, err := pathID(c, "id")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	c.SetParamValues("nope")
	_, err = pathID(c, "id")
	assert.Error(t, err)
}

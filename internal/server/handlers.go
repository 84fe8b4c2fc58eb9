package server

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fem/sPof-sub000/internal/router"
	"github.com/fem/sPof-sub000/internal/util"
)

// TableSource provides the current route table and its readers.
// routing.Provider implements it.
type TableSource interface {
	Ready() bool
	Table() *router.Table
	Matcher() (*router.Matcher, error)
	Reverser() (*router.Reverser, error)
}

// RouteEntry is one line of the /routes listing.
type RouteEntry struct {
	Route       string `json:"route"`
	Pattern     string `json:"pattern"`
	Specificity int    `json:"specificity"`
}

type handlers struct {
	source TableSource
}

func (h *handlers) resolve(c *gin.Context) {
	path, ok := c.GetQuery("path")
	if !ok {
		c.JSON(http.StatusBadRequest, errorBody("Bad Request", "query parameter path is required"))
		return
	}

	m, err := h.source.Matcher()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, errorBody("Service Unavailable", err.Error()))
		return
	}

	res, err := m.Resolve(path)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			c.JSON(http.StatusNotFound, errorBody("Not Found", err.Error()))
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorBody("Internal Server Error", err.Error()))
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *handlers) reverse(c *gin.Context) {
	r, err := h.source.Reverser()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, errorBody("Service Unavailable", err.Error()))
		return
	}

	args, err := OrderedArgs(c.Request.URL.RawQuery)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Bad Request", err.Error()))
		return
	}

	name := c.Param("name")
	location := r.Reverse(name, args)
	if location == "" {
		c.JSON(http.StatusNotFound, errorBody("Not Found", util.NewUnknownRouteError(name).Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": location})
}

func (h *handlers) redirect(c *gin.Context) {
	r, err := h.source.Reverser()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, errorBody("Service Unavailable", err.Error()))
		return
	}

	args, err := OrderedArgs(c.Request.URL.RawQuery)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Bad Request", err.Error()))
		return
	}

	location, err := r.Redirect(c.Param("name"), args)
	if err != nil {
		c.JSON(http.StatusNotFound, errorBody("Not Found", err.Error()))
		return
	}
	c.Redirect(http.StatusFound, location)
}

func (h *handlers) routes(c *gin.Context) {
	table := h.source.Table()
	if table == nil {
		c.JSON(http.StatusServiceUnavailable, errorBody("Service Unavailable", "route table not loaded"))
		return
	}

	testableOnly, _ := strconv.ParseBool(c.Query("testable"))
	c.JSON(http.StatusOK, ListRoutes(table, testableOnly))
}

func (h *handlers) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) readyz(c *gin.Context) {
	if !h.source.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// ListRoutes returns the variants of table in match order. With
// testableOnly, variants of skiptest routes are left out.
func ListRoutes(table *router.Table, testableOnly bool) []RouteEntry {
	entries := make([]RouteEntry, 0, table.Len())
	for _, v := range table.Variants() {
		if testableOnly {
			if def, ok := table.Lookup(v.Route); ok && def.SkipTest {
				continue
			}
		}
		entries = append(entries, RouteEntry{
			Route:       v.Route,
			Pattern:     v.Pattern,
			Specificity: v.Specificity,
		})
	}
	return entries
}

// OrderedArgs parses a raw query string into reverse arguments keeping
// their order. A key without '=' is an absent argument.
func OrderedArgs(rawQuery string) (router.Args, error) {
	if rawQuery == "" {
		return nil, nil
	}

	parts := strings.Split(rawQuery, "&")
	args := make(router.Args, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}

		rawKey, rawValue, hasValue := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, err
		}
		if !hasValue {
			args = append(args, router.Absent(key))
			continue
		}

		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, err
		}
		args = append(args, router.Value(key, value))
	}
	return args, nil
}

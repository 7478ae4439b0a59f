package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Paginator reads page and limit query parameters.
type Paginator struct {
	DefaultSize int
	MaxSize     int
}

// Page is the paginated list envelope.
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

type pageRequest struct {
	page  int
	limit int
}

func (r pageRequest) offset() int {
	return (r.page - 1) * r.limit
}

// parse reads the page request. It responds 404 for a malformed page number.
func (p Paginator) parse(c *gin.Context) (pageRequest, bool) {
	req := pageRequest{page: 1, limit: p.DefaultSize}
	if req.limit <= 0 {
		req.limit = 6
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			req.limit = n
		}
	}
	if p.MaxSize > 0 && req.limit > p.MaxSize {
		req.limit = p.MaxSize
	}
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		// The offset (n-1)*limit must fit in an int.
		if err != nil || n < 1 || n-1 > math.MaxInt/req.limit {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "invalid page.", "code": "not_found"})
			return req, false
		}
		req.page = n
	}
	return req, true
}

// respond writes one page of results out of count. Pages past the end are 404.
func (p Paginator) respond(c *gin.Context, req pageRequest, count int64, results interface{}) {
	if req.page > 1 && int64(req.offset()) >= count {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "invalid page.", "code": "not_found"})
		return
	}
	page := Page{Count: count, Results: results}
	if int64(req.offset()+req.limit) < count {
		next := pageURL(c, req.page+1)
		page.Next = &next
	}
	if req.page > 1 {
		prev := pageURL(c, req.page-1)
		page.Previous = &prev
	}
	c.JSON(http.StatusOK, page)
}

func pageURL(c *gin.Context, page int) string {
	u := *c.Request.URL
	q := u.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	u.Scheme = requestScheme(c)
	u.Host = c.Request.Host
	return u.String()
}

func requestScheme(c *gin.Context) string {
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		return "https"
	}
	return "http"
}

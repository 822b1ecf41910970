package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alicanaksel/Cineseek/pkg/catalog"
)

func (s *Server) indexPage(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

func (s *Server) watchlistPage(c *gin.Context) {
	c.HTML(http.StatusOK, "watchlist.html", nil)
}

func (s *Server) resultsPage(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	page := atoiDefault(c.Query("page"), 1)

	filter := catalog.Filter{
		Type:    c.Query("type"),
		YearMin: atoiDefault(c.Query("ymin"), 0),
		YearMax: atoiDefault(c.Query("ymax"), 0),
	}

	res := s.svc.Search(c.Request.Context(), q, page, filter)
	c.HTML(http.StatusOK, "results.html", gin.H{
		"Q":     res.Query,
		"Items": res.Items,
		"Page":  res.Page,
		"Pages": res.Pages,
		"Total": res.Total,
		"Type":  filter.Type,
		"Ymin":  c.Query("ymin"),
		"Ymax":  c.Query("ymax"),
	})
}

func (s *Server) titlePage(c *gin.Context) {
	t, err := s.svc.Title(c.Request.Context(), c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		c.String(http.StatusNotFound, "title not found")
		return
	}
	c.HTML(http.StatusOK, "detail.html", gin.H{"M": t})
}

func (s *Server) apiSearch(c *gin.Context) {
	items := s.svc.Autocomplete(c.Request.Context(), c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"results": items})
}

func (s *Server) apiDiscover(c *gin.Context) {
	items := s.svc.Discover(c.Request.Context(), c.Query("seed"))
	c.JSON(http.StatusOK, gin.H{"results": items})
}

func (s *Server) apiSpotlight(c *gin.Context) {
	sp := s.svc.Spotlight(c.Request.Context())
	if sp == nil {
		c.JSON(http.StatusOK, gin.H{"id": nil})
		return
	}
	c.JSON(http.StatusOK, sp)
}

func (s *Server) apiTitleMin(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.TitleMin(c.Request.Context(), c.Param("id")))
}

// download serves the raw upstream record as a downloadable JSON
// document; the path must end in ".json".
func (s *Server) download(c *gin.Context) {
	file := c.Param("file")
	id := strings.TrimSuffix(file, ".json")
	if id == file || id == "" {
		c.String(http.StatusNotFound, "not found")
		return
	}

	doc, err := s.svc.Export(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusNotFound, "title not found")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file))
	c.Data(http.StatusOK, "application/json", doc)
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < def {
		return def
	}
	return n
}

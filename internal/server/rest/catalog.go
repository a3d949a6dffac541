package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) listBrands(c *gin.Context) {
	ctx := c.Request.Context()

	brands, err := s.catalog.ListBrands(ctx, c.Query("category"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	for _, b := range brands {
		if b.LogoRef == nil {
			continue
		}
		u, err := s.images.ResolveURL(ctx, *b.LogoRef)
		if err != nil {
			s.respondError(c, err)
			return
		}
		b.LogoRef = &u
	}
	c.JSON(http.StatusOK, brands)
}

func (s *Server) listModels(c *gin.Context) {
	found, err := s.catalog.ListModels(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

type uploadURLRequest struct {
	ContentType string `json:"content_type"`
}

type uploadURLResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}

// uploadURL hands out a presigned PUT for one image. The returned key is
// what goes into a listing's images.
func (s *Server) uploadURL(c *gin.Context) {
	var in uploadURLRequest
	if c.Request.ContentLength != 0 {
		if err := bindJSON(c, &in); err != nil {
			s.respondError(c, err)
			return
		}
	}

	key, url, err := s.images.GetPresignedPutURL(c.Request.Context(), in.ContentType)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, uploadURLResponse{Key: key, UploadURL: url})
}

func (s *Server) health(c *gin.Context) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			s.logger.Warn(ctx, "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

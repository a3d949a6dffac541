package rest

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/motomarket/internal/server/models"
	"github.com/gin-gonic/gin"
)

// withImageURLs returns a copy of l whose image references are browser
// loadable URLs.
func (s *Server) withImageURLs(ctx context.Context, l *models.Listing) (*models.Listing, error) {
	urls, err := s.images.ResolveURLs(ctx, l.Images)
	if err != nil {
		return nil, err
	}
	out := *l
	out.Images = urls
	return &out, nil
}

func (s *Server) listingsWithImageURLs(ctx context.Context, in []*models.Listing) ([]*models.Listing, error) {
	out := make([]*models.Listing, len(in))
	for i, l := range in {
		r, err := s.withImageURLs(ctx, l)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func (s *Server) respondListing(c *gin.Context, status int, l *models.Listing) {
	r, err := s.withImageURLs(c.Request.Context(), l)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(status, r)
}

func (s *Server) respondListings(c *gin.Context, in []*models.Listing) {
	out, err := s.listingsWithImageURLs(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// parsePrice reads an optional price bound. ok is false when the value is
// present but not a finite number; such a bound matches no listing.
func parsePrice(c *gin.Context, name string) (v *float64, ok bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &f, true
}

func (s *Server) searchListings(c *gin.Context) {
	minPrice, minOK := parsePrice(c, "min_price")
	maxPrice, maxOK := parsePrice(c, "max_price")
	if !minOK || !maxOK {
		c.JSON(http.StatusOK, []*models.Listing{})
		return
	}

	found, err := s.catalog.SearchApproved(c.Request.Context(), models.ListingFilter{
		Category: c.Query("category"),
		Text:     c.Query("q"),
		City:     c.Query("city"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     models.SortKey(c.Query("sort")),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.respondListings(c, found)
}

func (s *Server) getListing(c *gin.Context) {
	l, err := s.listings.GetListing(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.respondListing(c, http.StatusOK, l)
}

func bindFields(c *gin.Context) (models.ListingFields, error) {
	var in models.ListingFields
	err := bindJSON(c, &in)
	return in, err
}

func (s *Server) createListing(c *gin.Context) {
	in, err := bindFields(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	l, err := s.listings.CreateListing(c.Request.Context(), callerID(c), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.respondListing(c, http.StatusCreated, l)
}

func (s *Server) updateListing(c *gin.Context) {
	in, err := bindFields(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	l, err := s.listings.UpdateListing(c.Request.Context(), callerID(c), c.Param("id"), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.respondListing(c, http.StatusOK, l)
}

func (s *Server) withdrawListing(c *gin.Context) {
	if err := s.listings.WithdrawListing(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// transitionFunc is a ListingService method expression; the receiver is
// bound per request.
type transitionFunc func(svc ListingService, ctx context.Context, callerID, listingID string) (*models.Listing, error)

func (s *Server) transition(fn transitionFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		l, err := fn(s.listings, c.Request.Context(), callerID(c), c.Param("id"))
		if err != nil {
			s.respondError(c, err)
			return
		}
		s.respondListing(c, http.StatusOK, l)
	}
}

func (s *Server) myListings(c *gin.Context) {
	mine, err := s.listings.ListMine(c.Request.Context(), callerID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.respondListings(c, mine)
}

func (s *Server) pendingListings(c *gin.Context) {
	ctx := c.Request.Context()

	pending, err := s.listings.ListPending(ctx, callerID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}

	out := make([]*models.PendingListing, len(pending))
	for i, p := range pending {
		l, err := s.withImageURLs(ctx, &p.Listing)
		if err != nil {
			s.respondError(c, err)
			return
		}
		out[i] = &models.PendingListing{Listing: *l, SellerName: p.SellerName, SellerPhone: p.SellerPhone}
	}
	c.JSON(http.StatusOK, out)
}

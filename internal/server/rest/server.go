// Package rest exposes the marketplace over an HTTP JSON API.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/motomarket/internal/logging"
	"github.com/dmitrijs2005/motomarket/internal/server/models"
	"github.com/dmitrijs2005/motomarket/internal/server/services"
	"github.com/gin-gonic/gin"
)

type ListingService interface {
	CreateListing(ctx context.Context, sellerID string, f models.ListingFields) (*models.Listing, error)
	GetListing(ctx context.Context, callerID, listingID string) (*models.Listing, error)
	UpdateListing(ctx context.Context, callerID, listingID string, f models.ListingFields) (*models.Listing, error)
	WithdrawListing(ctx context.Context, callerID, listingID string) error
	ApproveListing(ctx context.Context, callerID, listingID string) (*models.Listing, error)
	RejectListing(ctx context.Context, callerID, listingID string) (*models.Listing, error)
	MarkSold(ctx context.Context, callerID, listingID string) (*models.Listing, error)
	ListMine(ctx context.Context, callerID string) ([]*models.Listing, error)
	ListPending(ctx context.Context, callerID string) ([]*models.PendingListing, error)
}

type CatalogService interface {
	SearchApproved(ctx context.Context, f models.ListingFilter) ([]*models.Listing, error)
	ListBrands(ctx context.Context, category string) ([]*models.Brand, error)
	ListModels(ctx context.Context, brandID string) ([]*models.VehicleModel, error)
}

type RoleService interface {
	GetUserRole(ctx context.Context, userID string) (models.Role, error)
	SetUserRole(ctx context.Context, callerID, targetID string, role models.Role) error
	ListUsers(ctx context.Context, callerID string) ([]*models.UserWithRole, error)
}

type ProfileService interface {
	UpsertProfile(ctx context.Context, callerID string, in services.ProfileInput) (*models.UserProfile, error)
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

type ImageService interface {
	GetPresignedPutURL(ctx context.Context, contentType string) (string, string, error)
	ResolveURL(ctx context.Context, ref string) (string, error)
	ResolveURLs(ctx context.Context, refs []string) ([]string, error)
}

// Services bundles the domain services the API is served from.
type Services struct {
	Listings ListingService
	Catalog  CatalogService
	Roles    RoleService
	Profiles ProfileService
	Images   ImageService
}

// Options tunes transport concerns.
type Options struct {
	SecretKey string
	// RateLimit is requests per second per client IP; zero disables limiting.
	RateLimit float64
	RateBurst int
	// Ready is consulted by /health.
	Ready func(ctx context.Context) error
}

type Server struct {
	address   string
	logger    logging.Logger
	engine    *gin.Engine
	limiter   *ipLimiter
	jwtSecret []byte
	ready     func(ctx context.Context) error

	listings ListingService
	catalog  CatalogService
	roles    RoleService
	profiles ProfileService
	images   ImageService
}

func NewServer(address string, l logging.Logger, svc Services, opts Options) *Server {
	s := &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		engine:    gin.New(),
		limiter:   newIPLimiter(opts.RateLimit, opts.RateBurst),
		jwtSecret: []byte(opts.SecretKey),
		ready:     opts.Ready,
		listings:  svc.Listings,
		catalog:   svc.Catalog,
		roles:     svc.Roles,
		profiles:  svc.Profiles,
		images:    svc.Images,
	}
	s.setupRoutes()
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	go s.limiter.sweepEvery(ctx, time.Minute, 10*time.Minute)

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

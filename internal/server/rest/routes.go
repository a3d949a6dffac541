package rest

import "github.com/gin-gonic/gin"

func (s *Server) setupRoutes() {
	r := s.engine
	r.Use(gin.Recovery(), s.requestLogger(), s.rateLimit())

	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")

	// Public reads; a token, when present, identifies the caller.
	public := v1.Group("/")
	public.Use(s.authenticate(false))
	{
		public.GET("/listings", s.searchListings)
		public.GET("/listings/:id", s.getListing)
		public.GET("/catalog/brands", s.listBrands)
		public.GET("/catalog/brands/:id/models", s.listModels)
		public.GET("/users/:id/profile", s.getUserProfile)
	}

	protected := v1.Group("/")
	protected.Use(s.authenticate(true))
	{
		protected.POST("/listings", s.createListing)
		protected.PUT("/listings/:id", s.updateListing)
		protected.DELETE("/listings/:id", s.withdrawListing)
		protected.POST("/listings/:id/approve", s.transition(ListingService.ApproveListing))
		protected.POST("/listings/:id/reject", s.transition(ListingService.RejectListing))
		protected.POST("/listings/:id/sold", s.transition(ListingService.MarkSold))

		protected.GET("/me/listings", s.myListings)
		protected.GET("/me/profile", s.myProfile)
		protected.PUT("/me/profile", s.upsertMyProfile)

		protected.GET("/moderation/pending", s.pendingListings)

		protected.GET("/users", s.listUsers)
		protected.GET("/users/:id/role", s.getUserRole)
		protected.PUT("/users/:id/role", s.setUserRole)

		protected.POST("/images/upload-url", s.uploadURL)
	}
}

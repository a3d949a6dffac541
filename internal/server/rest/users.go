package rest

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/motomarket/internal/common"
	"github.com/dmitrijs2005/motomarket/internal/server/models"
	"github.com/dmitrijs2005/motomarket/internal/server/policy"
	"github.com/dmitrijs2005/motomarket/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *Server) withAvatarURL(ctx context.Context, p *models.UserProfile) (*models.UserProfile, error) {
	u, err := s.images.ResolveURL(ctx, p.AvatarRef)
	if err != nil {
		return nil, err
	}
	out := *p
	out.AvatarRef = u
	return &out, nil
}

func (s *Server) respondProfile(c *gin.Context, p *models.UserProfile) {
	r, err := s.withAvatarURL(c.Request.Context(), p)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) myProfile(c *gin.Context) {
	p, err := s.profiles.GetProfile(c.Request.Context(), callerID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.respondProfile(c, p)
}

func (s *Server) getUserProfile(c *gin.Context) {
	p, err := s.profiles.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.respondProfile(c, p)
}

func (s *Server) upsertMyProfile(c *gin.Context) {
	var in services.ProfileInput
	if err := bindJSON(c, &in); err != nil {
		s.respondError(c, err)
		return
	}

	p, err := s.profiles.UpsertProfile(c.Request.Context(), callerID(c), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.respondProfile(c, p)
}

func (s *Server) listUsers(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := s.roles.ListUsers(ctx, callerID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}

	out := make([]*models.UserWithRole, len(users))
	for i, u := range users {
		p, err := s.withAvatarURL(ctx, &u.UserProfile)
		if err != nil {
			s.respondError(c, err)
			return
		}
		out[i] = &models.UserWithRole{UserProfile: *p, Role: u.Role}
	}
	c.JSON(http.StatusOK, out)
}

type roleBody struct {
	UserID string      `json:"user_id,omitempty"`
	Role   models.Role `json:"role"`
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// getUserRole lets users read their own role and admins read anyone's.
func (s *Server) getUserRole(c *gin.Context) {
	ctx := c.Request.Context()
	caller, target := callerID(c), c.Param("id")

	if caller != target {
		role, err := s.roles.GetUserRole(ctx, caller)
		if err != nil {
			s.respondError(c, err)
			return
		}
		if !policy.Can(role, policy.ActionListUsers, "", caller) {
			s.respondError(c, common.ErrDenied)
			return
		}
	}

	role, err := s.roles.GetUserRole(ctx, target)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roleBody{UserID: target, Role: role})
}

func (s *Server) setUserRole(c *gin.Context) {
	var in setRoleRequest
	if err := bindJSON(c, &in); err != nil {
		s.respondError(c, err)
		return
	}

	role, err := models.ParseRole(in.Role)
	if err != nil {
		s.respondError(c, common.NewValidationError("role", "must be one of admin, moderator, user"))
		return
	}

	target := c.Param("id")
	if err := s.roles.SetUserRole(c.Request.Context(), callerID(c), target, role); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roleBody{UserID: target, Role: role})
}

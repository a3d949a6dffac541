package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/motomarket/internal/common"
	"github.com/dmitrijs2005/motomarket/internal/logging"
	"github.com/dmitrijs2005/motomarket/internal/server/models"
	"github.com/dmitrijs2005/motomarket/internal/server/repositories/repomanager"
)

// ProfileInput is the owner-editable part of a profile.
type ProfileInput struct {
	FullName  string  `json:"full_name" binding:"required"`
	Username  *string `json:"username,omitempty"`
	Phone     string  `json:"phone_number"`
	City      string  `json:"city"`
	Address   *string `json:"address,omitempty"`
	Bio       string  `json:"bio"`
	AvatarRef string  `json:"avatar_url"`
	UserType  string  `json:"user_type"`
}

type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: m,
		log:         log,
	}
}

// UpsertProfile creates or updates the caller's own profile. Verification
// status cannot be set this way: new profiles start unverified and existing
// ones keep theirs.
func (s *ProfileService) UpsertProfile(ctx context.Context, callerID string, in ProfileInput) (*models.UserProfile, error) {
	if callerID == "" {
		return nil, common.ErrorUnauthorized
	}

	p := &models.UserProfile{
		ID:                 callerID,
		FullName:           strings.TrimSpace(in.FullName),
		Username:           nonEmpty(in.Username),
		Phone:              strings.TrimSpace(in.Phone),
		City:               strings.TrimSpace(in.City),
		Address:            nonEmpty(in.Address),
		Bio:                strings.TrimSpace(in.Bio),
		AvatarRef:          strings.TrimSpace(in.AvatarRef),
		UserType:           models.UserTypeBuyer,
		VerificationStatus: models.Unverified,
	}

	switch {
	case p.FullName == "":
		return nil, common.NewValidationError("full_name", "is required")
	case p.Phone == "":
		return nil, common.NewValidationError("phone_number", "is required")
	case p.City == "":
		return nil, common.NewValidationError("city", "is required")
	}
	if t := strings.TrimSpace(in.UserType); t != "" {
		ut, err := models.ParseUserType(t)
		if err != nil {
			return nil, common.NewValidationError("user_type", "must be buyer or seller")
		}
		p.UserType = ut
	}

	if err := s.repomanager.Profiles(s.db).Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("error saving profile: %w", err)
	}

	s.log.Debug(ctx, "profile saved", "user_id", callerID)
	return p, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.repomanager.Profiles(s.db).Get(ctx, userID)
}

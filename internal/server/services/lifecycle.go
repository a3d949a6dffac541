package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/motomarket/internal/common"
	"github.com/dmitrijs2005/motomarket/internal/logging"
	"github.com/dmitrijs2005/motomarket/internal/server/models"
	"github.com/dmitrijs2005/motomarket/internal/server/policy"
	"github.com/dmitrijs2005/motomarket/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// transition describes one edge set of the listing state machine.
type transition struct {
	from []models.Status
	to   models.Status
	// noop lists source statuses where the action succeeds without a write.
	noop []models.Status
}

var transitions = map[policy.Action]transition{
	policy.ActionApproveListing: {
		from: []models.Status{models.StatusPending},
		to:   models.StatusApproved,
		noop: []models.Status{models.StatusApproved},
	},
	policy.ActionRejectListing: {
		from: []models.Status{models.StatusPending, models.StatusApproved},
		to:   models.StatusRejected,
	},
	policy.ActionMarkSold: {
		from: []models.Status{models.StatusApproved},
		to:   models.StatusSold,
	},
}

func contains(list []models.Status, s models.Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ListingService owns every write to a listing's status. Status changes are
// compare-and-swap updates keyed on the status observed just before, so of
// two concurrent transitions on one listing exactly one lands and the other
// reports common.ErrInvalidTransition.
type ListingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	roles       RoleResolver
	log         logging.Logger
	now         func() time.Time
}

func NewListingService(db *sql.DB, m repomanager.RepositoryManager, roles RoleResolver, log logging.Logger) *ListingService {
	return &ListingService{
		db:          db,
		repomanager: m,
		roles:       roles,
		log:         log,
		now:         time.Now,
	}
}

// CreateListing validates fields and stores a new pending listing owned by
// sellerID.
func (s *ListingService) CreateListing(ctx context.Context, sellerID string, f models.ListingFields) (*models.Listing, error) {
	if sellerID == "" {
		return nil, common.ErrorUnauthorized
	}
	role, err := s.roles.GetUserRole(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !policy.Can(role, policy.ActionCreateListing, sellerID, sellerID) {
		return nil, common.ErrDenied
	}

	l, err := validateFields(f, s.now())
	if err != nil {
		return nil, err
	}
	if err := resolveCatalog(ctx, s.repomanager.Catalog(s.db), l); err != nil {
		return nil, err
	}

	l.ID = uuid.NewString()
	l.SellerID = sellerID
	l.Status = models.StatusPending

	if err := s.repomanager.Listings(s.db).Create(ctx, l); err != nil {
		return nil, fmt.Errorf("error creating listing: %w", err)
	}

	s.log.Info(ctx, "listing submitted", "listing_id", l.ID, "seller_id", sellerID, "category", string(l.Category))
	return l, nil
}

func (s *ListingService) ApproveListing(ctx context.Context, callerID, listingID string) (*models.Listing, error) {
	return s.transition(ctx, callerID, listingID, policy.ActionApproveListing)
}

func (s *ListingService) RejectListing(ctx context.Context, callerID, listingID string) (*models.Listing, error) {
	return s.transition(ctx, callerID, listingID, policy.ActionRejectListing)
}

// MarkSold closes an approved listing. The owner, moderators and admins may
// do so.
func (s *ListingService) MarkSold(ctx context.Context, callerID, listingID string) (*models.Listing, error) {
	return s.transition(ctx, callerID, listingID, policy.ActionMarkSold)
}

func (s *ListingService) transition(ctx context.Context, callerID, listingID string, action policy.Action) (*models.Listing, error) {
	if callerID == "" {
		return nil, common.ErrorUnauthorized
	}
	t, ok := transitions[action]
	if !ok {
		return nil, fmt.Errorf("no transition for action %q", action)
	}

	role, err := s.roles.GetUserRole(ctx, callerID)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Listings(s.db)

	l, err := repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if !policy.Can(role, action, l.SellerID, callerID) {
		return nil, common.ErrDenied
	}

	if contains(t.noop, l.Status) {
		return l, nil
	}
	if !contains(t.from, l.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", common.ErrInvalidTransition, l.Status, t.to)
	}

	updated, err := repo.CompareAndSetStatus(ctx, listingID, l.Status, t.to)
	if err != nil {
		if errors.Is(err, common.ErrStatusConflict) {
			return nil, fmt.Errorf("%w: listing changed concurrently", common.ErrInvalidTransition)
		}
		return nil, err
	}

	s.log.Info(ctx, "listing status changed",
		"listing_id", listingID, "from", string(l.Status), "to", string(t.to), "actor", callerID, "role", string(role))
	return updated, nil
}

// UpdateListing replaces the content of a pending listing owned by the
// caller. Once a listing has been moderated its content is frozen.
func (s *ListingService) UpdateListing(ctx context.Context, callerID, listingID string, f models.ListingFields) (*models.Listing, error) {
	if callerID == "" {
		return nil, common.ErrorUnauthorized
	}
	role, err := s.roles.GetUserRole(ctx, callerID)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Listings(s.db)

	current, err := repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !policy.Can(role, policy.ActionUpdateListing, current.SellerID, callerID) {
		return nil, common.ErrDenied
	}
	if current.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: cannot edit a %s listing", common.ErrInvalidTransition, current.Status)
	}

	l, err := validateFields(f, s.now())
	if err != nil {
		return nil, err
	}
	if err := resolveCatalog(ctx, s.repomanager.Catalog(s.db), l); err != nil {
		return nil, err
	}

	l.ID = current.ID
	l.SellerID = current.SellerID
	l.Status = current.Status
	l.ViewsCount = current.ViewsCount
	l.CreatedAt = current.CreatedAt

	if err := repo.UpdateContent(ctx, l, models.StatusPending); err != nil {
		if errors.Is(err, common.ErrStatusConflict) {
			return nil, fmt.Errorf("%w: listing changed concurrently", common.ErrInvalidTransition)
		}
		return nil, err
	}

	s.log.Info(ctx, "listing updated", "listing_id", listingID, "actor", callerID)
	return l, nil
}

// WithdrawListing deletes the caller's own listing while it is pending or
// rejected. Published and sold listings stay.
func (s *ListingService) WithdrawListing(ctx context.Context, callerID, listingID string) error {
	if callerID == "" {
		return common.ErrorUnauthorized
	}
	role, err := s.roles.GetUserRole(ctx, callerID)
	if err != nil {
		return err
	}

	repo := s.repomanager.Listings(s.db)

	l, err := repo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if !policy.Can(role, policy.ActionWithdrawListing, l.SellerID, callerID) {
		return common.ErrDenied
	}
	if l.Status != models.StatusPending && l.Status != models.StatusRejected {
		return fmt.Errorf("%w: cannot withdraw a %s listing", common.ErrInvalidTransition, l.Status)
	}

	if err := repo.Delete(ctx, listingID, l.SellerID, l.Status); err != nil {
		if errors.Is(err, common.ErrStatusConflict) {
			return fmt.Errorf("%w: listing changed concurrently", common.ErrInvalidTransition)
		}
		return err
	}

	s.log.Info(ctx, "listing withdrawn", "listing_id", listingID, "actor", callerID)
	return nil
}

// GetListing returns a listing for display. Approved listings are public
// and count a view unless the owner is looking. Other statuses are visible
// to the owner and to moderators/admins only; everyone else gets
// common.ErrorNotFound.
func (s *ListingService) GetListing(ctx context.Context, callerID, listingID string) (*models.Listing, error) {
	repo := s.repomanager.Listings(s.db)

	l, err := repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if l.Status == models.StatusApproved {
		if callerID != l.SellerID {
			if err := repo.IncrementViews(ctx, listingID); err != nil {
				s.log.Warn(ctx, "view count not recorded", "listing_id", listingID, "error", err)
			} else {
				l.ViewsCount++
			}
		}
		return l, nil
	}

	role, err := s.roles.GetUserRole(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if policy.Privileged(role) || policy.Can(role, policy.ActionViewListing, l.SellerID, callerID) {
		return l, nil
	}
	return nil, common.ErrorNotFound
}

// ListMine returns the caller's own listings in every status, newest first.
func (s *ListingService) ListMine(ctx context.Context, callerID string) ([]*models.Listing, error) {
	if callerID == "" {
		return nil, common.ErrorUnauthorized
	}
	return s.repomanager.Listings(s.db).ListBySeller(ctx, callerID)
}

// ListPending returns the moderation queue with seller contact details.
func (s *ListingService) ListPending(ctx context.Context, callerID string) ([]*models.PendingListing, error) {
	if callerID == "" {
		return nil, common.ErrorUnauthorized
	}
	role, err := s.roles.GetUserRole(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !policy.Can(role, policy.ActionListPending, "", callerID) {
		return nil, common.ErrDenied
	}
	return s.repomanager.Listings(s.db).ListPending(ctx)
}

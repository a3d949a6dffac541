package rest

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/motomarket/internal/server/models"
	"github.com/dmitrijs2005/motomarket/internal/server/services"
)

var errNotMocked = errors.New("not implemented")

type mockListings struct {
	createFunc   func(ctx context.Context, sellerID string, f models.ListingFields) (*models.Listing, error)
	getFunc      func(ctx context.Context, callerID, id string) (*models.Listing, error)
	updateFunc   func(ctx context.Context, callerID, id string, f models.ListingFields) (*models.Listing, error)
	withdrawFunc func(ctx context.Context, callerID, id string) error
	approveFunc  func(ctx context.Context, callerID, id string) (*models.Listing, error)
	rejectFunc   func(ctx context.Context, callerID, id string) (*models.Listing, error)
	soldFunc     func(ctx context.Context, callerID, id string) (*models.Listing, error)
	mineFunc     func(ctx context.Context, callerID string) ([]*models.Listing, error)
	pendingFunc  func(ctx context.Context, callerID string) ([]*models.PendingListing, error)
}

func (m *mockListings) CreateListing(ctx context.Context, sellerID string, f models.ListingFields) (*models.Listing, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, sellerID, f)
	}
	return nil, errNotMocked
}

func (m *mockListings) GetListing(ctx context.Context, callerID, id string) (*models.Listing, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, callerID, id)
	}
	return nil, errNotMocked
}

func (m *mockListings) UpdateListing(ctx context.Context, callerID, id string, f models.ListingFields) (*models.Listing, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, callerID, id, f)
	}
	return nil, errNotMocked
}

func (m *mockListings) WithdrawListing(ctx context.Context, callerID, id string) error {
	if m.withdrawFunc != nil {
		return m.withdrawFunc(ctx, callerID, id)
	}
	return errNotMocked
}

func (m *mockListings) ApproveListing(ctx context.Context, callerID, id string) (*models.Listing, error) {
	if m.approveFunc != nil {
		return m.approveFunc(ctx, callerID, id)
	}
	return nil, errNotMocked
}

func (m *mockListings) RejectListing(ctx context.Context, callerID, id string) (*models.Listing, error) {
	if m.rejectFunc != nil {
		return m.rejectFunc(ctx, callerID, id)
	}
	return nil, errNotMocked
}

func (m *mockListings) MarkSold(ctx context.Context, callerID, id string) (*models.Listing, error) {
	if m.soldFunc != nil {
		return m.soldFunc(ctx, callerID, id)
	}
	return nil, errNotMocked
}

func (m *mockListings) ListMine(ctx context.Context, callerID string) ([]*models.Listing, error) {
	if m.mineFunc != nil {
		return m.mineFunc(ctx, callerID)
	}
	return nil, errNotMocked
}

func (m *mockListings) ListPending(ctx context.Context, callerID string) ([]*models.PendingListing, error) {
	if m.pendingFunc != nil {
		return m.pendingFunc(ctx, callerID)
	}
	return nil, errNotMocked
}

type mockCatalog struct {
	searchFunc func(ctx context.Context, f models.ListingFilter) ([]*models.Listing, error)
	brandsFunc func(ctx context.Context, category string) ([]*models.Brand, error)
	modelsFunc func(ctx context.Context, brandID string) ([]*models.VehicleModel, error)
}

func (m *mockCatalog) SearchApproved(ctx context.Context, f models.ListingFilter) ([]*models.Listing, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, f)
	}
	return nil, errNotMocked
}

func (m *mockCatalog) ListBrands(ctx context.Context, category string) ([]*models.Brand, error) {
	if m.brandsFunc != nil {
		return m.brandsFunc(ctx, category)
	}
	return nil, errNotMocked
}

func (m *mockCatalog) ListModels(ctx context.Context, brandID string) ([]*models.VehicleModel, error) {
	if m.modelsFunc != nil {
		return m.modelsFunc(ctx, brandID)
	}
	return nil, errNotMocked
}

type mockRoles struct {
	roles     map[string]models.Role
	setFunc   func(ctx context.Context, callerID, targetID string, role models.Role) error
	usersFunc func(ctx context.Context, callerID string) ([]*models.UserWithRole, error)
}

func (m *mockRoles) GetUserRole(_ context.Context, userID string) (models.Role, error) {
	if r, ok := m.roles[userID]; ok {
		return r, nil
	}
	return models.DefaultRole, nil
}

func (m *mockRoles) SetUserRole(ctx context.Context, callerID, targetID string, role models.Role) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, callerID, targetID, role)
	}
	return errNotMocked
}

func (m *mockRoles) ListUsers(ctx context.Context, callerID string) ([]*models.UserWithRole, error) {
	if m.usersFunc != nil {
		return m.usersFunc(ctx, callerID)
	}
	return nil, errNotMocked
}

type mockProfiles struct {
	upsertFunc func(ctx context.Context, callerID string, in services.ProfileInput) (*models.UserProfile, error)
	getFunc    func(ctx context.Context, userID string) (*models.UserProfile, error)
}

func (m *mockProfiles) UpsertProfile(ctx context.Context, callerID string, in services.ProfileInput) (*models.UserProfile, error) {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, callerID, in)
	}
	return nil, errNotMocked
}

func (m *mockProfiles) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, userID)
	}
	return nil, errNotMocked
}

// fakeImages "presigns" by prefixing keys with a fixed host.
type fakeImages struct {
	err error
}

func (f *fakeImages) GetPresignedPutURL(_ context.Context, contentType string) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return "listings/new-key", "https://s3.test/listings/new-key?type=" + contentType, nil
}

func (f *fakeImages) ResolveURL(_ context.Context, ref string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if ref == "" || strings.HasPrefix(ref, "http") {
		return ref, nil
	}
	return "https://s3.test/" + ref, nil
}

func (f *fakeImages) ResolveURLs(ctx context.Context, refs []string) ([]string, error) {
	out := make([]string, len(refs))
	for i, r := range refs {
		u, err := f.ResolveURL(ctx, r)
		if err != nil {
			return nil, err
		}
		out[i] = u
	}
	return out, nil
}

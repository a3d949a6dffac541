package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/motomarket/internal/common"
	"github.com/dmitrijs2005/motomarket/internal/dbx"
	"github.com/dmitrijs2005/motomarket/internal/server/models"
	"github.com/dmitrijs2005/motomarket/internal/server/repositories/catalog"
	"github.com/dmitrijs2005/motomarket/internal/server/repositories/listings"
	"github.com/dmitrijs2005/motomarket/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/motomarket/internal/server/repositories/roles"
)

// memStore is an in-memory RepositoryManager. Every repository it vends
// shares one mutex, which makes CompareAndSetStatus a real CAS.
type memStore struct {
	mu       sync.Mutex
	clock    time.Time
	listings map[string]*models.Listing
	roles    map[string]models.Role
	upserts  map[string]int
	profiles map[string]*models.UserProfile
	brands   map[string]*models.Brand
	vmodels  map[string]*models.VehicleModel

	// failures injected by tests
	getErr    error
	createErr error
	roleErr   error
	viewsErr  error

	// onGet, when set, runs after every successful listing read, once the
	// copy is taken and the lock released.
	onGet func()

	// onRoleGet, when set, runs after every role read, outside the lock.
	onRoleGet func(userID string)
}

func newMemStore() *memStore {
	return &memStore{
		clock:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		listings: map[string]*models.Listing{},
		roles:    map[string]models.Role{},
		upserts:  map[string]int{},
		profiles: map[string]*models.UserProfile{},
		brands: map[string]*models.Brand{
			"b-honda": {ID: "b-honda", Category: models.CategoryBike, Name: "Honda"},
			"b-vespa": {ID: "b-vespa", Category: models.CategoryScooter, Name: "Vespa"},
		},
		vmodels: map[string]*models.VehicleModel{
			"m-shine": {ID: "m-shine", BrandID: "b-honda", Category: models.CategoryBike, Name: "CB Shine"},
			"m-vxl":   {ID: "m-vxl", BrandID: "b-vespa", Category: models.CategoryScooter, Name: "VXL 125"},
		},
	}
}

// tick advances the fake clock so created_at values are distinct.
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memStore) Listings(dbx.DBTX) listings.Repository { return (*memListings)(m) }
func (m *memStore) Roles(dbx.DBTX) roles.Repository { return (*memRoles)(m) }
func (m *memStore) Profiles(dbx.DBTX) profiles.Repository { return (*memProfiles)(m) }
func (m *memStore) Catalog(dbx.DBTX) catalog.Repository { return (*memCatalog)(m) }

func (m *memStore) status(id string) models.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listings[id].Status
}

func (m *memStore) put(l *models.Listing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = m.tick()
		l.UpdatedAt = l.CreatedAt
	}
	m.listings[l.ID] = copyListing(l)
}

func copyListing(l *models.Listing) *models.Listing {
	c := *l
	c.Images = append([]string(nil), l.Images...)
	return &c
}

type memListings memStore

func (r *memListings) Create(_ context.Context, l *models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	l.CreatedAt = (*memStore)(r).tick()
	l.UpdatedAt = l.CreatedAt
	r.listings[l.ID] = copyListing(l)
	return nil
}

func (r *memListings) GetByID(_ context.Context, id string) (*models.Listing, error) {
	l, err := r.getByID(id)
	if err != nil {
		return nil, err
	}
	if r.onGet != nil {
		r.onGet()
	}
	return l, nil
}

func (r *memListings) getByID(id string) (*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	l, ok := r.listings[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyListing(l), nil
}

func (r *memListings) UpdateContent(_ context.Context, l *models.Listing, expected models.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.listings[l.ID]
	if !ok || cur.Status != expected || cur.SellerID != l.SellerID {
		return common.ErrStatusConflict
	}
	l.UpdatedAt = (*memStore)(r).tick()
	r.listings[l.ID] = copyListing(l)
	return nil
}

func (r *memListings) CompareAndSetStatus(_ context.Context, id string, from, to models.Status) (*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.listings[id]
	if !ok || cur.Status != from {
		return nil, common.ErrStatusConflict
	}
	cur.Status = to
	cur.UpdatedAt = (*memStore)(r).tick()
	return copyListing(cur), nil
}

func (r *memListings) Delete(_ context.Context, id, sellerID string, expected models.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.listings[id]
	if !ok || cur.SellerID != sellerID || cur.Status != expected {
		return common.ErrStatusConflict
	}
	delete(r.listings, id)
	return nil
}

func (r *memListings) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.viewsErr != nil {
		return r.viewsErr
	}
	if cur, ok := r.listings[id]; ok && cur.Status == models.StatusApproved {
		cur.ViewsCount++
	}
	return nil
}

func (r *memListings) Search(_ context.Context, f models.ListingFilter) ([]*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.Listing, 0)
	text := strings.ToLower(f.Text)
	for _, l := range r.listings {
		switch {
		case l.Status != models.StatusApproved:
		case f.Category != "" && string(l.Category) != f.Category:
		case text != "" && !strings.Contains(strings.ToLower(l.BrandName), text) && !strings.Contains(strings.ToLower(l.ModelName), text):
		case f.City != "" && !strings.EqualFold(l.City, f.City):
		case f.MinPrice != nil && l.Price < *f.MinPrice:
		case f.MaxPrice != nil && l.Price > *f.MaxPrice:
		default:
			out = append(out, copyListing(l))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch f.Sort {
		case models.SortPriceAsc:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		case models.SortPriceDesc:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
		case models.SortYearDesc:
			if a.Year != b.Year {
				return a.Year > b.Year
			}
		case models.SortMileageAsc:
			if a.Mileage != b.Mileage {
				return a.Mileage < b.Mileage
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (r *memListings) ListBySeller(_ context.Context, sellerID string) ([]*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Listing, 0)
	for _, l := range r.listings {
		if l.SellerID == sellerID {
			out = append(out, copyListing(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memListings) ListPending(_ context.Context) ([]*models.PendingListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.PendingListing, 0)
	for _, l := range r.listings {
		if l.Status != models.StatusPending {
			continue
		}
		p := &models.PendingListing{Listing: *copyListing(l)}
		if prof, ok := r.profiles[l.SellerID]; ok {
			p.SellerName = prof.FullName
			p.SellerPhone = prof.Phone
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memRoles memStore

func (r *memRoles) Get(_ context.Context, userID string) (models.Role, error) {
	role, err := r.get(userID)
	if r.onRoleGet != nil {
		r.onRoleGet(userID)
	}
	return role, err
}

func (r *memRoles) get(userID string) (models.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.roleErr != nil {
		return "", r.roleErr
	}
	role, ok := r.roles[userID]
	if !ok {
		return "", common.ErrorNotFound
	}
	return role, nil
}

func (r *memRoles) GetForShare(ctx context.Context, userID string) (models.Role, error) {
	return r.Get(ctx, userID)
}

func (r *memRoles) Upsert(_ context.Context, userID string, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[userID] = role
	r.upserts[userID]++
	return nil
}

type memProfiles memStore

func (r *memProfiles) Upsert(_ context.Context, p *models.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := (*memStore)(r).tick()
	if cur, ok := r.profiles[p.ID]; ok {
		p.VerificationStatus = cur.VerificationStatus
		p.CreatedAt = cur.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	c := *p
	r.profiles[p.ID] = &c
	return nil
}

func (r *memProfiles) Get(_ context.Context, id string) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *p
	return &c, nil
}

func (r *memProfiles) ListWithRoles(_ context.Context) ([]*models.UserWithRole, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.UserWithRole, 0)
	for id, p := range r.profiles {
		role, ok := r.roles[id]
		if !ok {
			role = models.DefaultRole
		}
		out = append(out, &models.UserWithRole{UserProfile: *p, Role: role})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memCatalog memStore

func (r *memCatalog) ListBrands(_ context.Context, category models.Category) ([]*models.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Brand, 0)
	for _, b := range r.brands {
		if category == "" || b.Category == category {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCatalog) GetBrand(_ context.Context, id string) (*models.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.brands[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *b
	return &c, nil
}

func (r *memCatalog) ListModels(_ context.Context, brandID string) ([]*models.VehicleModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.VehicleModel, 0)
	for _, m := range r.vmodels {
		if m.BrandID == brandID {
			c := *m
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCatalog) GetModel(_ context.Context, id string) (*models.VehicleModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.vmodels[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *m
	return &c, nil
}

package gateway

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kurasimap/KurasiMap/app/models"
	"github.com/kurasimap/KurasiMap/app/repository"
)

// memLocationRepo is an in-memory store with a manually advanced clock, so
// timestamp behavior can be asserted without sub-millisecond races.
type memLocationRepo struct {
	items  map[uint]models.Location
	nextID uint
	clock  time.Time
}

func newMemLocationRepo() *memLocationRepo {
	return &memLocationRepo{
		items:  map[uint]models.Location{},
		nextID: 1,
		clock:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *memLocationRepo) List(filter repository.LocationFilter) ([]models.Location, error) {
	locations := make([]models.Location, 0, len(r.items))
	for _, l := range r.items {
		locations = append(locations, l)
	}
	return locations, nil
}

func (r *memLocationRepo) GetByID(id uint) (*models.Location, error) {
	location, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &location, nil
}

func (r *memLocationRepo) Create(location *models.Location) error {
	location.ID = r.nextID
	r.nextID++
	location.CreatedAt = r.clock
	location.UpdatedAt = r.clock
	r.items[location.ID] = *location
	return nil
}

func (r *memLocationRepo) Update(location *models.Location) error {
	if _, ok := r.items[location.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	location.UpdatedAt = r.clock
	r.items[location.ID] = *location
	return nil
}

func (r *memLocationRepo) Delete(id uint) error {
	delete(r.items, id)
	return nil
}

func (r *memLocationRepo) Count() (int64, error) {
	return int64(len(r.items)), nil
}

func (r *memLocationRepo) AddViews(id uint, views int64) error {
	location, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	location.ViewCount += views
	r.items[id] = location
	return nil
}

func newConnectedGateway(repos *repository.Repositories) *Gateway {
	return &Gateway{
		mode:    ModeConnected,
		repos:   repos,
		samples: DefaultSampleData(),
	}
}

func TestCreateThenUpdateRefreshesOnlyUpdatedAt(t *testing.T) {
	t.Parallel()

	repo := newMemLocationRepo()
	gw := newConnectedGateway(&repository.Repositories{Location: repo})

	created := gw.CreateLocation(&models.Location{
		Name:       "Warung Kopi Imah",
		CategoryID: "cafes",
	})
	require.NotNil(t, created)

	fetched := gw.GetLocation(created.ID)
	require.NotNil(t, fetched)
	assert.True(t, fetched.UpdatedAt.Equal(fetched.CreatedAt))

	createdAt := fetched.CreatedAt
	repo.clock = repo.clock.Add(time.Hour)

	fetched.Description = "Now with outdoor seating"
	updated := gw.UpdateLocation(fetched)
	require.NotNil(t, updated)

	fetched = gw.GetLocation(created.ID)
	require.NotNil(t, fetched)
	assert.True(t, fetched.CreatedAt.Equal(createdAt))
	assert.True(t, fetched.UpdatedAt.After(fetched.CreatedAt))
}

// Erroring repositories simulate a store that accepted the connection at
// startup but fails mid-flight.

type failingCategoryRepo struct{}

func (failingCategoryRepo) GetAll() ([]models.Category, error) {
	return nil, errors.New("connection reset by peer")
}

func (failingCategoryRepo) GetByID(id string) (*models.Category, error) {
	return nil, errors.New("connection reset by peer")
}

func (failingCategoryRepo) Create(category *models.Category) error {
	return errors.New("connection reset by peer")
}

func (failingCategoryRepo) Count() (int64, error) {
	return 0, errors.New("connection reset by peer")
}

type failingLocationRepo struct{}

func (failingLocationRepo) List(filter repository.LocationFilter) ([]models.Location, error) {
	return nil, errors.New("connection reset by peer")
}

func (failingLocationRepo) GetByID(id uint) (*models.Location, error) {
	return nil, errors.New("connection reset by peer")
}

func (failingLocationRepo) Create(location *models.Location) error {
	return errors.New("connection reset by peer")
}

func (failingLocationRepo) Update(location *models.Location) error {
	return errors.New("connection reset by peer")
}

func (failingLocationRepo) Delete(id uint) error {
	return errors.New("connection reset by peer")
}

func (failingLocationRepo) Count() (int64, error) {
	return 0, errors.New("connection reset by peer")
}

func (failingLocationRepo) AddViews(id uint, views int64) error {
	return errors.New("connection reset by peer")
}

type failingLoginActivityRepo struct{}

func (failingLoginActivityRepo) Create(activity *models.LoginActivity) error {
	return errors.New("new row violates row-level security policy for table \"login_activities\"")
}

func (failingLoginActivityRepo) CountSince(since time.Time) (int64, error) {
	return 0, errors.New("connection reset by peer")
}

func TestConnectedReadsFallBackToSamplesOnStoreFailure(t *testing.T) {
	t.Parallel()

	gw := newConnectedGateway(&repository.Repositories{
		Category: failingCategoryRepo{},
		Location: failingLocationRepo{},
	})

	// The mode flag never flips; each failing read independently serves the
	// embedded dataset instead.
	assert.Equal(t, ModeConnected, gw.Mode())

	categories := gw.GetCategories()
	require.Len(t, categories, 3)
	assert.Equal(t, "restaurants", categories[0].ID)

	locations := gw.GetLocations(repository.LocationFilter{CategoryID: "cafes"})
	require.Len(t, locations, 1)
	assert.Equal(t, "Djournal Coffee", locations[0].Name)

	location := gw.GetLocation(2)
	require.NotNil(t, location)
	assert.Equal(t, "Djournal Coffee", location.Name)
}

func TestConnectedNotFoundDoesNotFallBack(t *testing.T) {
	t.Parallel()

	repo := newMemLocationRepo()
	gw := newConnectedGateway(&repository.Repositories{Location: repo})

	// Id 2 exists in the sample dataset but not in the store; a clean
	// not-found answer must win over the fallback data.
	assert.Nil(t, gw.GetLocation(2))
}

func TestConnectedWritesFailSoftWithoutFallback(t *testing.T) {
	t.Parallel()

	gw := newConnectedGateway(&repository.Repositories{Location: failingLocationRepo{}})

	assert.Nil(t, gw.CreateLocation(&models.Location{Name: "New Spot", CategoryID: "cafes"}))
	assert.Nil(t, gw.UpdateLocation(&models.Location{ID: 1, Name: "Renamed"}))
	assert.False(t, gw.DeleteLocation(1))
}

func TestLogLoginActivitySynthesizesOnRejectedWrite(t *testing.T) {
	t.Parallel()

	gw := newConnectedGateway(&repository.Repositories{LoginActivity: failingLoginActivityRepo{}})

	record := gw.LogLoginActivity(&models.LoginActivity{
		Email:       "a@b.c",
		LoginStatus: models.LOGIN_STATUS_FAILED,
	})
	require.NotNil(t, record)
	assert.Equal(t, models.LOGIN_STATUS_FAILED, record.LoginStatus)
	assert.Equal(t, models.UNKNOWN_USER_ID, record.UserID)
	assert.NotEmpty(t, record.AuditID)
	assert.False(t, record.CreatedAt.IsZero())

	success := gw.LogLoginActivity(&models.LoginActivity{
		UserID:      "user-1",
		LoginStatus: models.LOGIN_STATUS_SUCCESS,
	})
	require.NotNil(t, success)
	assert.Equal(t, models.LOGIN_STATUS_SUCCESS, success.LoginStatus)
	assert.Equal(t, "user-1", success.UserID)
}

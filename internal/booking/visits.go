package booking

import (
	"context"
	"errors"
	"time"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/store"
	"github.com/sirupsen/logrus"
)

// ErrVisitNotFound is returned for an unknown or expired visit id, or one
// that belongs to another package
var ErrVisitNotFound = errors.New("visit not found")

// Visit is the transient state of one package detail page visit
type Visit struct {
	PackageID string
	Cart      Cart
	UserInfo  models.UserInfo
}

// Visits keeps one cart per open detail page, keyed by a visit id carried in
// the page's links and forms. Abandoned visits expire.
type Visits struct {
	store *store.TTLStore[Visit]
}

// NewVisits creates the visit registry
func NewVisits(ttl time.Duration, logger *logrus.Logger) *Visits {
	return &Visits{store: store.NewTTLStore[Visit]("visits", ttl, logger)}
}

// Start runs the expiry janitor until ctx is cancelled
func (v *Visits) Start(ctx context.Context) {
	v.store.Start(ctx)
}

// Begin starts a fresh, empty visit for a package
func (v *Visits) Begin(packageID string) (string, Visit) {
	visit := Visit{PackageID: packageID}
	return v.store.Create(visit), visit
}

// Lookup returns the visit if it exists and belongs to packageID
func (v *Visits) Lookup(id, packageID string) (Visit, bool) {
	if id == "" {
		return Visit{}, false
	}
	visit, ok := v.store.Get(id)
	if !ok || visit.PackageID != packageID {
		return Visit{}, false
	}
	return visit, true
}

// Update applies fn to the visit under the store lock and returns the
// result. When fn fails the stored visit is left as it was.
func (v *Visits) Update(id, packageID string, fn func(*Visit) error) (Visit, error) {
	if id == "" {
		return Visit{}, ErrVisitNotFound
	}

	var (
		result Visit
		found  bool
		fnErr  error
	)
	ok := v.store.Update(id, func(current Visit) Visit {
		if current.PackageID != packageID {
			return current
		}
		found = true
		next := current
		if fnErr = fn(&next); fnErr != nil {
			result = current
			return current
		}
		result = next
		return next
	})
	if !ok || !found {
		return Visit{}, ErrVisitNotFound
	}
	return result, fnErr
}

// Len is the number of stored visits
func (v *Visits) Len() int {
	return v.store.Len()
}

// End forgets the visit after a successful submission
func (v *Visits) End(id string) {
	v.store.Delete(id)
}

package admin

import (
	"context"
	"errors"
	"time"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/store"
	"github.com/sirupsen/logrus"
)

var (
	// ErrDraftNotFound is returned for unknown or expired drafts
	ErrDraftNotFound = errors.New("draft not found")
	// ErrWrongDraftKind is returned when a package action targets a service draft or vice versa
	ErrWrongDraftKind = errors.New("draft has a different kind")
)

// DraftKind tells which entity a draft edits
type DraftKind string

const (
	PackageDraftKind DraftKind = "package"
	ServiceDraftKind DraftKind = "service"
)

// Draft is one open admin form
type Draft struct {
	Kind    DraftKind
	Package PackageDraft
	Service ServiceDraft
}

// IsEdit reports whether the draft updates an existing entity
func (d Draft) IsEdit() bool {
	if d.Kind == ServiceDraftKind {
		return d.Service.IsEdit()
	}
	return d.Package.IsEdit()
}

func (d Draft) clone() Draft {
	out := d
	out.Package.Destinations = make([]DestinationDraft, len(d.Package.Destinations))
	for i, dest := range d.Package.Destinations {
		dest.KeptPhotos = append([]string(nil), dest.KeptPhotos...)
		dest.NewPhotos = append([]Photo(nil), dest.NewPhotos...)
		out.Package.Destinations[i] = dest
	}
	out.Service.KeptPhotos = append([]string(nil), d.Service.KeptPhotos...)
	out.Service.NewPhotos = append([]Photo(nil), d.Service.NewPhotos...)
	return out
}

// Drafts keeps open admin forms between requests. A draft survives
// validation errors and photo staging, and is discarded on submit, cancel
// or expiry.
type Drafts struct {
	store *store.TTLStore[Draft]
}

// NewDrafts creates the draft registry
func NewDrafts(ttl time.Duration, logger *logrus.Logger) *Drafts {
	return &Drafts{store: store.NewTTLStore[Draft]("drafts", ttl, logger)}
}

// Start runs the expiry janitor until ctx is cancelled
func (d *Drafts) Start(ctx context.Context) {
	d.store.Start(ctx)
}

// NewPackage opens an empty package form
func (d *Drafts) NewPackage() string {
	return d.store.Create(Draft{Kind: PackageDraftKind, Package: NewPackageDraft()})
}

// EditPackage opens a form prefilled with an existing package
func (d *Drafts) EditPackage(pkg models.Package) string {
	return d.store.Create(Draft{Kind: PackageDraftKind, Package: PackageDraftFrom(pkg)})
}

// NewService opens an empty service form
func (d *Drafts) NewService() string {
	return d.store.Create(Draft{Kind: ServiceDraftKind})
}

// EditService opens a form prefilled with an existing service
func (d *Drafts) EditService(svc models.Service) string {
	return d.store.Create(Draft{Kind: ServiceDraftKind, Service: ServiceDraftFrom(svc)})
}

// Get returns a copy of the draft
func (d *Drafts) Get(id string) (Draft, bool) {
	draft, ok := d.store.Get(id)
	if !ok {
		return Draft{}, false
	}
	return draft.clone(), true
}

// UpdatePackage applies fn to a package draft. The change is kept even when
// fn returns an error, so the form shows what was typed next to the message.
func (d *Drafts) UpdatePackage(id string, fn func(*PackageDraft) error) error {
	var fnErr error
	wrongKind := false
	found := d.store.Update(id, func(draft Draft) Draft {
		if draft.Kind != PackageDraftKind {
			wrongKind = true
			return draft
		}
		draft = draft.clone()
		fnErr = fn(&draft.Package)
		return draft
	})
	switch {
	case !found:
		return ErrDraftNotFound
	case wrongKind:
		return ErrWrongDraftKind
	}
	return fnErr
}

// UpdateService applies fn to a service draft, keeping the change on error
func (d *Drafts) UpdateService(id string, fn func(*ServiceDraft) error) error {
	var fnErr error
	wrongKind := false
	found := d.store.Update(id, func(draft Draft) Draft {
		if draft.Kind != ServiceDraftKind {
			wrongKind = true
			return draft
		}
		draft = draft.clone()
		fnErr = fn(&draft.Service)
		return draft
	})
	switch {
	case !found:
		return ErrDraftNotFound
	case wrongKind:
		return ErrWrongDraftKind
	}
	return fnErr
}

// Discard forgets a draft
func (d *Drafts) Discard(id string) {
	d.store.Delete(id)
}

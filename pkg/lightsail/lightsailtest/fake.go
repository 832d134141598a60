// Package lightsailtest provides an in-memory lightsail.Client for tests.
package lightsailtest

import (
	"context"
	"fmt"
	"strings"

	"github.com/zdunecki/lsdomain/pkg/lightsail"
)

// Fake records every call and keeps certificates, zones and services in memory.
type Fake struct {
	Certificates []string
	Zones        map[string][]lightsail.DomainEntry
	Services     map[string]*lightsail.ContainerService

	// Errors returned by the matching method before any state change.
	CreateCertificateErr error
	CreateEntryErr       error
	UpdateEntryErr       error
	EntryNamesErr        error

	// HiddenEntries keeps created names out of DomainEntryNames for that many polls.
	HiddenEntries int

	Calls           []string
	EntryNamesCalls int
	nextID          int
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{
		Zones:    make(map[string][]lightsail.DomainEntry),
		Services: make(map[string]*lightsail.ContainerService),
	}
}

func (f *Fake) record(format string, args ...interface{}) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

// Called reports whether a call with the given prefix was made.
func (f *Fake) Called(prefix string) bool {
	for _, c := range f.Calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func (f *Fake) CertificateNames(_ context.Context) ([]string, error) {
	f.record("CertificateNames")
	return append([]string(nil), f.Certificates...), nil
}

func (f *Fake) CreateCertificate(_ context.Context, name, domain string) error {
	f.record("CreateCertificate %s %s", name, domain)
	if f.CreateCertificateErr != nil {
		return f.CreateCertificateErr
	}
	f.Certificates = append(f.Certificates, name)
	return nil
}

func (f *Fake) DomainEntryNames(_ context.Context, zone string) ([]string, error) {
	f.record("DomainEntryNames %s", zone)
	f.EntryNamesCalls++
	if f.EntryNamesErr != nil {
		return nil, f.EntryNamesErr
	}
	if f.HiddenEntries > 0 {
		f.HiddenEntries--
		return nil, nil
	}

	var names []string
	for _, e := range f.Zones[zone] {
		names = append(names, e.Name)
	}
	return names, nil
}

func (f *Fake) DomainEntries(_ context.Context, zone string) ([]lightsail.DomainEntry, error) {
	f.record("DomainEntries %s", zone)
	return append([]lightsail.DomainEntry(nil), f.Zones[zone]...), nil
}

func (f *Fake) CreateDomainEntry(_ context.Context, zone string, entry lightsail.DomainEntry) error {
	f.record("CreateDomainEntry %s %s %s", zone, entry.Type, entry.Name)
	if f.CreateEntryErr != nil {
		return f.CreateEntryErr
	}
	f.nextID++
	entry.ID = fmt.Sprintf("entry-%d", f.nextID)
	f.Zones[zone] = append(f.Zones[zone], entry)
	return nil
}

func (f *Fake) UpdateDomainEntry(_ context.Context, zone string, entry lightsail.DomainEntry) error {
	f.record("UpdateDomainEntry %s %s %s", zone, entry.Type, entry.Name)
	if f.UpdateEntryErr != nil {
		return f.UpdateEntryErr
	}
	for i, e := range f.Zones[zone] {
		if e.ID == entry.ID {
			f.Zones[zone][i] = entry
			return nil
		}
	}
	return fmt.Errorf("domain entry %s not found", entry.ID)
}

func (f *Fake) ContainerService(_ context.Context, name string) (*lightsail.ContainerService, error) {
	f.record("ContainerService %s", name)
	svc, ok := f.Services[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", lightsail.ErrServiceNotFound, name)
	}
	cp := *svc
	return &cp, nil
}

func (f *Fake) UpdatePublicDomainNames(_ context.Context, service string, domains map[string][]string) error {
	f.record("UpdatePublicDomainNames %s", service)
	svc, ok := f.Services[service]
	if !ok {
		return fmt.Errorf("%w: %s", lightsail.ErrServiceNotFound, service)
	}
	svc.PublicDomainNames = domains
	return nil
}

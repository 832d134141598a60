package dns

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/zdunecki/lsdomain/pkg/lightsail"
)

// Reconciler makes sure the zone's records point at the container service.
type Reconciler struct {
	client lightsail.Client
	log    *logrus.Entry
}

// NewReconciler creates a Reconciler.
func NewReconciler(client lightsail.Client, log *logrus.Entry) *Reconciler {
	return &Reconciler{
		client: client,
		log:    log.WithField("component", "dns"),
	}
}

// EnsureCNAME creates a CNAME for record in zone unless a record with that
// name already exists. It returns the fully qualified record name.
func (r *Reconciler) EnsureCNAME(ctx context.Context, zone, record, target string) (string, error) {
	fullName := FullRecordName(record, zone)
	log := r.log.WithFields(logrus.Fields{"zone": zone, "record": fullName})

	names, err := r.client.DomainEntryNames(ctx, zone)
	if err != nil {
		return "", fmt.Errorf("failed to list records in %s: %w", zone, err)
	}
	if containsName(names, fullName) {
		log.Info("record already present, skipping CNAME creation")
		return fullName, nil
	}

	entry := lightsail.DomainEntry{
		Name:   fullName,
		Type:   lightsail.RecordTypeCNAME,
		Target: NormalizeTarget(target),
	}
	if err := r.client.CreateDomainEntry(ctx, zone, entry); err != nil {
		if lightsail.IsAlreadyExists(err) {
			log.WithError(err).Info("CNAME created concurrently, continuing")
			return fullName, nil
		}
		return "", fmt.Errorf("failed to create CNAME %s: %w", fullName, err)
	}

	log.WithField("target", entry.Target).Info("created CNAME")
	return fullName, nil
}

// UpsertARecord points an alias A record for record at target. An existing A
// entry keeps its identity and options; a missing one is created under the
// record label, or under the zone name for the apex.
func (r *Reconciler) UpsertARecord(ctx context.Context, zone, record, target string) error {
	fullName := FullRecordName(record, zone)
	target = NormalizeTarget(target)
	log := r.log.WithFields(logrus.Fields{"zone": zone, "record": record, "target": target})

	entries, err := r.client.DomainEntries(ctx, zone)
	if err != nil {
		return fmt.Errorf("failed to fetch records in %s: %w", zone, err)
	}

	for _, e := range entries {
		if e.Type != lightsail.RecordTypeA {
			continue
		}
		if !SameName(e.Name, record) && !SameName(e.Name, fullName) {
			continue
		}

		updated := e
		updated.Target = target
		updated.IsAlias = true
		if err := r.client.UpdateDomainEntry(ctx, zone, updated); err != nil {
			return fmt.Errorf("failed to update A record %s: %w", e.Name, err)
		}
		log.WithField("id", e.ID).Info("updated alias A record")
		return nil
	}

	name := record
	if record == Apex {
		name = zone
	}
	entry := lightsail.DomainEntry{
		Name:    name,
		Type:    lightsail.RecordTypeA,
		Target:  target,
		IsAlias: true,
	}
	if err := r.client.CreateDomainEntry(ctx, zone, entry); err != nil {
		if lightsail.IsAlreadyExists(err) {
			log.WithError(err).Info("A record created concurrently, continuing")
			return nil
		}
		return fmt.Errorf("failed to create A record %s: %w", record, err)
	}

	log.Info("created alias A record")
	return nil
}

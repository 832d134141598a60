package dns

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/zdunecki/lsdomain/pkg/lightsail"
	"github.com/zdunecki/lsdomain/pkg/lightsail/lightsailtest"
)

func nullEntry() *logrus.Entry {
	logger, _ := test.NewNullLogger()
	return logrus.NewEntry(logger)
}

func TestEnsureCNAMECreates(t *testing.T) {
	fake := lightsailtest.NewFake()
	r := NewReconciler(fake, nullEntry())

	name, err := r.EnsureCNAME(context.Background(), "example.com", "app", "https://svc.region.cs.example/")
	if err != nil {
		t.Fatalf("EnsureCNAME() error = %v", err)
	}
	if name != "app.example.com" {
		t.Errorf("name = %s", name)
	}

	want := []lightsail.DomainEntry{
		{ID: "entry-1", Name: "app.example.com", Type: lightsail.RecordTypeCNAME, Target: "svc.region.cs.example"},
	}
	if diff := cmp.Diff(want, fake.Zones["example.com"]); diff != "" {
		t.Errorf("zone mismatch (-want +got):\n%s", diff)
	}
}

func TestEnsureCNAMESkipsExisting(t *testing.T) {
	fake := lightsailtest.NewFake()
	fake.Zones["example.com"] = []lightsail.DomainEntry{
		{ID: "1", Name: "App.Example.com.", Type: lightsail.RecordTypeA, Target: "other.example"},
	}
	r := NewReconciler(fake, nullEntry())

	if _, err := r.EnsureCNAME(context.Background(), "example.com", "app", "svc.example"); err != nil {
		t.Fatalf("EnsureCNAME() error = %v", err)
	}
	if fake.Called("CreateDomainEntry") {
		t.Error("existing record should not be recreated")
	}
}

func TestEnsureCNAMEAlreadyExists(t *testing.T) {
	fake := lightsailtest.NewFake()
	fake.CreateEntryErr = &lightsail.CommandError{
		Args:   []string{"lightsail", "create-domain-entry"},
		Stderr: "InvalidInputException: domain entry already exists",
		Err:    errors.New("exit status 254"),
	}
	r := NewReconciler(fake, nullEntry())

	if _, err := r.EnsureCNAME(context.Background(), "example.com", "app", "svc.example"); err != nil {
		t.Fatalf("already-exists should be tolerated, got %v", err)
	}
}

func TestEnsureCNAMEErrors(t *testing.T) {
	boom := errors.New("access denied")

	t.Run("list", func(t *testing.T) {
		fake := lightsailtest.NewFake()
		fake.EntryNamesErr = boom
		_, err := NewReconciler(fake, nullEntry()).EnsureCNAME(context.Background(), "example.com", "app", "svc")
		if !errors.Is(err, boom) {
			t.Fatalf("expected wrapped list error, got %v", err)
		}
	})

	t.Run("create", func(t *testing.T) {
		fake := lightsailtest.NewFake()
		fake.CreateEntryErr = boom
		_, err := NewReconciler(fake, nullEntry()).EnsureCNAME(context.Background(), "example.com", "app", "svc")
		if !errors.Is(err, boom) {
			t.Fatalf("expected wrapped create error, got %v", err)
		}
	})
}

func TestUpsertARecordUpdatesExisting(t *testing.T) {
	tests := []struct {
		name     string
		existing lightsail.DomainEntry
	}{
		{"short name", lightsail.DomainEntry{ID: "7", Name: "app", Type: lightsail.RecordTypeA, Target: "1.2.3.4", Options: map[string]string{"ttl": "60"}}},
		{"full name", lightsail.DomainEntry{ID: "7", Name: "app.example.com", Type: lightsail.RecordTypeA, Target: "1.2.3.4", Options: map[string]string{"ttl": "60"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := lightsailtest.NewFake()
			fake.Zones["example.com"] = []lightsail.DomainEntry{
				{ID: "6", Name: "app.example.com", Type: lightsail.RecordTypeCNAME, Target: "svc.example"},
				tt.existing,
			}

			err := NewReconciler(fake, nullEntry()).UpsertARecord(context.Background(), "example.com", "app", "https://svc.example/")
			if err != nil {
				t.Fatalf("UpsertARecord() error = %v", err)
			}

			want := tt.existing
			want.Target = "svc.example"
			want.IsAlias = true
			if diff := cmp.Diff(want, fake.Zones["example.com"][1]); diff != "" {
				t.Errorf("A record mismatch (-want +got):\n%s", diff)
			}
			if fake.Called("CreateDomainEntry") {
				t.Error("existing A record should be updated, not created")
			}
		})
	}
}

func TestUpsertARecordCreatesMissing(t *testing.T) {
	fake := lightsailtest.NewFake()
	fake.Zones["example.com"] = []lightsail.DomainEntry{
		{ID: "6", Name: "app.example.com", Type: lightsail.RecordTypeCNAME, Target: "svc.example"},
	}

	err := NewReconciler(fake, nullEntry()).UpsertARecord(context.Background(), "example.com", "app", "svc.example")
	if err != nil {
		t.Fatalf("UpsertARecord() error = %v", err)
	}

	want := lightsail.DomainEntry{ID: "entry-1", Name: "app", Type: lightsail.RecordTypeA, Target: "svc.example", IsAlias: true}
	if diff := cmp.Diff(want, fake.Zones["example.com"][1]); diff != "" {
		t.Errorf("A record mismatch (-want +got):\n%s", diff)
	}
}

func TestUpsertARecordUpdateError(t *testing.T) {
	boom := errors.New("throttled")
	fake := lightsailtest.NewFake()
	fake.Zones["example.com"] = []lightsail.DomainEntry{{ID: "7", Name: "app", Type: lightsail.RecordTypeA}}
	fake.UpdateEntryErr = boom

	err := NewReconciler(fake, nullEntry()).UpsertARecord(context.Background(), "example.com", "app", "svc.example")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped update error, got %v", err)
	}
}

func TestUpsertARecordApex(t *testing.T) {
	fake := lightsailtest.NewFake()

	err := NewReconciler(fake, nullEntry()).UpsertARecord(context.Background(), "example.com", Apex, "svc.example")
	if err != nil {
		t.Fatalf("UpsertARecord() error = %v", err)
	}
	if got := fake.Zones["example.com"][0].Name; got != "example.com" {
		t.Errorf("apex A record name = %s, want example.com", got)
	}
}

package lightsail

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	lstypes "github.com/aws/aws-sdk-go-v2/service/lightsail/types"
	"github.com/google/go-cmp/cmp"
)

func TestToSDKEntry(t *testing.T) {
	tests := []struct {
		name   string
		entry  DomainEntry
		wantID *string
	}{
		{
			name:  "new cname",
			entry: DomainEntry{Name: "app.example.com", Type: RecordTypeCNAME, Target: "svc.cs.example"},
		},
		{
			name:   "existing alias",
			entry:  DomainEntry{ID: "entry-7", Name: "app", Type: RecordTypeA, Target: "svc.cs.example", IsAlias: true},
			wantID: aws.String("entry-7"),
		},
		{
			name:  "options",
			entry: DomainEntry{Name: "example.com", Type: RecordTypeA, Target: "svc.cs.example", IsAlias: true, Options: map[string]string{"ttl": "60"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toSDKEntry(tt.entry)

			if diff := cmp.Diff(tt.wantID, got.Id); diff != "" {
				t.Errorf("id mismatch (-want +got):\n%s", diff)
			}
			if aws.ToString(got.Name) != tt.entry.Name {
				t.Errorf("name = %s, want %s", aws.ToString(got.Name), tt.entry.Name)
			}
			if aws.ToString(got.Type) != string(tt.entry.Type) {
				t.Errorf("type = %s, want %s", aws.ToString(got.Type), tt.entry.Type)
			}
			if aws.ToString(got.Target) != tt.entry.Target {
				t.Errorf("target = %s, want %s", aws.ToString(got.Target), tt.entry.Target)
			}
			if got.IsAlias == nil || *got.IsAlias != tt.entry.IsAlias {
				t.Errorf("isAlias = %v, want %v", got.IsAlias, tt.entry.IsAlias)
			}
			if diff := cmp.Diff(tt.entry.Options, got.Options); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromSDKEntry(t *testing.T) {
	in := lstypes.DomainEntry{
		Id:      aws.String("entry-3"),
		Name:    aws.String("app.example.com"),
		Type:    aws.String("A"),
		Target:  aws.String("svc.cs.example"),
		IsAlias: aws.Bool(true),
		Options: map[string]string{"ttl": "60"},
	}
	want := DomainEntry{
		ID:      "entry-3",
		Name:    "app.example.com",
		Type:    RecordTypeA,
		Target:  "svc.cs.example",
		IsAlias: true,
		Options: map[string]string{"ttl": "60"},
	}
	if diff := cmp.Diff(want, fromSDKEntry(in)); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}

	if got := fromSDKEntry(lstypes.DomainEntry{}); got.IsAlias || got.ID != "" {
		t.Errorf("empty entry = %+v", got)
	}
}

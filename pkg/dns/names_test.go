package dns

import (
	"errors"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		domain     string
		wantRecord string
		wantZone   string
		wantErr    bool
	}{
		{"app.example.com", "app", "example.com", false},
		{"example.com", Apex, "example.com", false},
		{"api.eu.example.co.uk", "api", "eu.example.co.uk", false},
		{"app.example.com.", "app", "example.com", false},
		{"  app.example.com ", "app", "example.com", false},
		{"App.Example.com", "App", "Example.com", false},
		{"localhost", "", "", true},
		{"", "", "", true},
		{"app..com", "", "", true},
		{".example.com", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			record, zone, err := Split(tt.domain)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDomain) {
					t.Fatalf("expected ErrInvalidDomain, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}
			if record != tt.wantRecord || zone != tt.wantZone {
				t.Errorf("Split() = (%q, %q), want (%q, %q)", record, zone, tt.wantRecord, tt.wantZone)
			}
		})
	}
}

func TestSplitInZone(t *testing.T) {
	tests := []struct {
		domain  string
		zone    string
		want    string
		wantErr bool
	}{
		{"api.eu.example.com", "example.com", "api.eu", false},
		{"example.com", "example.com", Apex, false},
		{"app.example.com.", "example.com", "app", false},
		{"app.other.com", "example.com", "", true},
		{"badexample.com", "example.com", "", true},
		{"app.example.com", "com", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.domain+"/"+tt.zone, func(t *testing.T) {
			got, err := SplitInZone(tt.domain, tt.zone)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitInZone() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SplitInZone() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFullRecordName(t *testing.T) {
	if got := FullRecordName("app", "example.com"); got != "app.example.com" {
		t.Errorf("got %s", got)
	}
	if got := FullRecordName(Apex, "example.com"); got != "example.com" {
		t.Errorf("got %s", got)
	}
}

func TestNormalizeTarget(t *testing.T) {
	tests := map[string]string{
		"https://svc.abc.ca-central-1.cs.amazonlightsail.com/": "svc.abc.ca-central-1.cs.amazonlightsail.com",
		"http://svc.example/":                                  "svc.example",
		"svc.example":                                          "svc.example",
		"https://svc.example":                                  "svc.example",
		"svc.example//":                                        "svc.example/",
	}

	for in, want := range tests {
		if got := NormalizeTarget(in); got != want {
			t.Errorf("NormalizeTarget(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSameName(t *testing.T) {
	if !SameName("App.Example.com.", "app.example.com") {
		t.Error("expected names to match")
	}
	if SameName("app.example.com", "www.example.com") {
		t.Error("expected names to differ")
	}
}

package domain

import "testing"

func TestParseIdentityScheme(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    IdentityScheme
		wantErr bool
	}{
		{name: "legacy", input: "legacy", want: SchemeLegacy},
		{name: "stable", input: "stable", want: SchemeStable},
		{name: "empty defaults to legacy", input: "", want: SchemeLegacy},
		{name: "unknown value", input: "moneyman", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIdentityScheme(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIdentityScheme(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseIdentityScheme(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveIdentity(t *testing.T) {
	tx := Transaction{LegacyHash: "legacy-hash", UniqueID: "unique-id"}

	if got := ResolveIdentity(SchemeLegacy, tx); got != "legacy-hash" {
		t.Errorf("legacy scheme resolved to %q, want legacy-hash", got)
	}
	if got := ResolveIdentity(SchemeStable, tx); got != "unique-id" {
		t.Errorf("stable scheme resolved to %q, want unique-id", got)
	}
}

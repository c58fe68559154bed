package branding

import "testing"

func TestParseHost(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"greenhill.samuelmarketplace.com", "greenhill"},
		{"GreenHill.SamuelMarketplace.com:8080", "greenhill"},
		{"portal.st-marys.samuelmarketplace.com", "st-marys"},
		{"samuelmarketplace.com", FallbackSubdomain},
		{"localhost:8081", FallbackSubdomain},
		{"preview-123.vercel.app", FallbackSubdomain},
		{"bad%label.samuelmarketplace.com", FallbackSubdomain},
		{"", FallbackSubdomain},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			got := ParseHost(tt.host, "samuelmarketplace.com")
			if got.Subdomain != tt.want {
				t.Errorf("ParseHost(%q).Subdomain = %q, want %q", tt.host, got.Subdomain, tt.want)
			}
			if got.RootDomain != "samuelmarketplace.com" {
				t.Errorf("RootDomain = %q", got.RootDomain)
			}
		})
	}
}

func TestParseHost_DefaultRoot(t *testing.T) {
	if got := ParseHost("oak.samuelmarketplace.com", ""); got.Subdomain != "oak" {
		t.Errorf("Subdomain = %q, want oak", got.Subdomain)
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"greenhill":     "Greenhill",
		"st-marys_high": "St Marys High",
		"demo":          "Demo School",
		"42nd-street":   "42nd Street",
	}
	for in, want := range tests {
		if got := DisplayName(in); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolvePrecedence(t *testing.T) {
	tenant := ParseHost("greenhill.samuelmarketplace.com", "samuelmarketplace.com")

	b := Resolve(tenant, nil)
	if b.SchoolName != "Greenhill" || b.Domain != "greenhill.samuelmarketplace.com" {
		t.Errorf("defaults = %+v", b)
	}
	if b.Primary != DefaultPrimary || b.Secondary != DefaultSecondary || b.Campus != DefaultCampus {
		t.Errorf("default colors/campus = %+v", b)
	}
	if b.LogoURL != "" {
		t.Errorf("LogoURL = %q, want empty", b.LogoURL)
	}

	b = Resolve(tenant, &Override{SchoolName: "Green Hill Academy", Primary: "10 50% 50%", LogoURL: "https://x/logo.png"})
	if b.SchoolName != "Green Hill Academy" || b.Primary != "10 50% 50%" || b.LogoURL != "https://x/logo.png" {
		t.Errorf("override not applied: %+v", b)
	}
	if b.Secondary != DefaultSecondary || b.Campus != DefaultCampus {
		t.Errorf("empty override fields should fall through: %+v", b)
	}
	if b.Subdomain != "greenhill" {
		t.Errorf("Subdomain = %q, overrides must not change the tenant", b.Subdomain)
	}
}

func TestFallbackTenant(t *testing.T) {
	b := ResolveHost("localhost:3000", "samuelmarketplace.com", nil)
	if b.Subdomain != "demo" || b.SchoolName != "Demo School" || b.Domain != "demo.samuelmarketplace.com" {
		t.Errorf("fallback branding = %+v", b)
	}
}

func TestMerge(t *testing.T) {
	str := func(s string) *string { return &s }
	current := Resolve(Tenant{Subdomain: "oak", RootDomain: "example.com"}, nil)
	current.LogoURL = "https://oak.example.com/logo.png"

	tests := []struct {
		name  string
		patch Patch
		check func(t *testing.T, got Override)
	}{
		{"absent fields keep current", Patch{Campus: str(" North ")}, func(t *testing.T, got Override) {
			if got.Campus != "North" || got.SchoolName != "Oak" || got.Primary != DefaultPrimary {
				t.Errorf("got %+v", got)
			}
			if got.LogoURL != current.LogoURL {
				t.Errorf("LogoURL = %q, want kept", got.LogoURL)
			}
		}},
		{"empty logo removes it", Patch{LogoURL: str("")}, func(t *testing.T, got Override) {
			if got.LogoURL != "" {
				t.Errorf("LogoURL = %q, want cleared", got.LogoURL)
			}
		}},
		{"empty name falls back to default", Patch{SchoolName: str("")}, func(t *testing.T, got Override) {
			if b := Resolve(Tenant{Subdomain: "oak"}, &got); b.SchoolName != "Oak" {
				t.Errorf("SchoolName = %q, want default", b.SchoolName)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Merge(current, tt.patch))
		})
	}
}

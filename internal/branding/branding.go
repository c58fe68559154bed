// Package branding resolves per-tenant theming from the request host and an
// optional stored override document.
package branding

import (
	"net"
	"strings"
	"unicode"

	"schooldesk/internal/core"
)

const (
	DefaultRootDomain = "samuelmarketplace.com"
	FallbackSubdomain = "demo"

	DefaultPrimary   = "203 76% 55%"
	DefaultSecondary = "0 0% 100%"
	DefaultCampus    = "Main Campus"
)

// Tenant is the school a request belongs to.
type Tenant struct {
	Subdomain  string
	RootDomain string
}

// Override is the stored branding document. Empty fields fall through to the
// tenant defaults.
type Override struct {
	SchoolName string `json:"schoolName,omitempty" validate:"max=120"`
	LogoURL    string `json:"logoUrl,omitempty" validate:"omitempty,url"`
	Primary    string `json:"primary,omitempty" validate:"max=32"`
	Secondary  string `json:"secondary,omitempty" validate:"max=32"`
	Campus     string `json:"campus,omitempty" validate:"max=80"`
}

// Patch is a partial branding update. A nil field keeps the current value;
// a present empty string clears it, which removes the logo or restores the
// tenant default.
type Patch struct {
	SchoolName *string `json:"schoolName"`
	LogoURL    *string `json:"logoUrl"`
	Primary    *string `json:"primary"`
	Secondary  *string `json:"secondary"`
	Campus     *string `json:"campus"`
}

// ParseHost extracts the tenant subdomain from host. The label directly in
// front of rootDomain is the subdomain, so "a.greenhill.example.com" and
// "greenhill.example.com:8080" both resolve to "greenhill". Hosts outside the
// root domain, the bare root domain and labels that are not safe key segments
// all resolve to the fallback tenant.
func ParseHost(host, rootDomain string) Tenant {
	if rootDomain == "" {
		rootDomain = DefaultRootDomain
	}
	rootDomain = strings.ToLower(strings.Trim(rootDomain, "."))
	t := Tenant{Subdomain: FallbackSubdomain, RootDomain: rootDomain}

	h := strings.ToLower(strings.TrimSpace(host))
	if hostOnly, _, err := net.SplitHostPort(h); err == nil {
		h = hostOnly
	}
	h = strings.TrimSuffix(h, ".")

	suffix := "." + rootDomain
	if !strings.HasSuffix(h, suffix) {
		return t
	}
	labels := strings.Split(strings.TrimSuffix(h, suffix), ".")
	sub := labels[len(labels)-1]
	if !validLabel(sub) {
		return t
	}
	t.Subdomain = sub
	return t
}

func validLabel(s string) bool {
	if s == "" || len(s) > 63 {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}

// Defaults is the branding of a tenant with nothing stored.
func Defaults(t Tenant) core.Branding {
	return core.Branding{
		SchoolName: DisplayName(t.Subdomain),
		Subdomain:  t.Subdomain,
		Domain:     t.Subdomain + "." + t.RootDomain,
		Primary:    DefaultPrimary,
		Secondary:  DefaultSecondary,
		Campus:     DefaultCampus,
	}
}

// DisplayName turns a subdomain into a school name: separators become
// spaces and each word is capitalised. The fallback tenant gets a " School"
// suffix.
func DisplayName(subdomain string) string {
	name := strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return ' '
		}
		return r
	}, subdomain)

	b := []rune(name)
	start := true
	for i, r := range b {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start {
				b[i] = unicode.ToUpper(r)
			}
			start = false
		} else {
			start = true
		}
	}
	name = string(b)
	if subdomain == FallbackSubdomain {
		name += " School"
	}
	return name
}

// Resolve applies override on top of the tenant defaults. It has no side
// effects; a nil override yields the defaults.
func Resolve(t Tenant, override *Override) core.Branding {
	b := Defaults(t)
	if override == nil {
		return b
	}
	if override.SchoolName != "" {
		b.SchoolName = override.SchoolName
	}
	b.LogoURL = override.LogoURL
	if override.Primary != "" {
		b.Primary = override.Primary
	}
	if override.Secondary != "" {
		b.Secondary = override.Secondary
	}
	if override.Campus != "" {
		b.Campus = override.Campus
	}
	return b
}

// ResolveHost is Resolve for a raw host string.
func ResolveHost(host, rootDomain string, override *Override) core.Branding {
	return Resolve(ParseHost(host, rootDomain), override)
}

// Merge lays patch over current and returns the document to store.
func Merge(current core.Branding, patch Patch) Override {
	out := Override{
		SchoolName: current.SchoolName,
		LogoURL:    current.LogoURL,
		Primary:    current.Primary,
		Secondary:  current.Secondary,
		Campus:     current.Campus,
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&out.SchoolName, patch.SchoolName)
	set(&out.LogoURL, patch.LogoURL)
	set(&out.Primary, patch.Primary)
	set(&out.Secondary, patch.Secondary)
	set(&out.Campus, patch.Campus)
	return out
}

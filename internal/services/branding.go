package services

import (
	"context"
	"fmt"

	"schooldesk/internal/branding"
	"schooldesk/internal/core"
	"schooldesk/internal/records"
)

// Branding resolves the tenant's theme from its stored override, if any.
func (s *School) Branding(ctx context.Context) (core.Branding, error) {
	override, _, err := records.LoadDoc[*branding.Override](ctx, s.store, records.KeyBranding, nil)
	if err != nil {
		return core.Branding{}, err
	}
	return branding.Resolve(s.tenant, override), nil
}

// SaveBranding merges patch into the current branding and stores the result.
func (s *School) SaveBranding(ctx context.Context, patch branding.Patch) (core.Branding, error) {
	current, err := s.Branding(ctx)
	if err != nil {
		return core.Branding{}, err
	}
	merged := branding.Merge(current, patch)
	if err := check(s.validate, merged); err != nil {
		return core.Branding{}, err
	}
	if err := s.store.Save(ctx, records.KeyBranding, merged); err != nil {
		return core.Branding{}, fmt.Errorf("save branding: %w", err)
	}
	return branding.Resolve(s.tenant, &merged), nil
}

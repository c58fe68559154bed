package services

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"schooldesk/internal/amqp"
	"schooldesk/internal/branding"
	applog "schooldesk/internal/log"
	"schooldesk/internal/records"
)

// Directory hands out the School of each tenant. All tenants share one
// backend; each School sees only its own namespace.
type Directory struct {
	kv         records.KV
	rootDomain string
	publisher  ChangePublisher
	logger     *applog.Logger
	validate   *validator.Validate
	now        func() time.Time
	newID      func() string
}

// NewDirectory builds a directory over kv. publisher may be nil, in which
// case changes are not announced.
func NewDirectory(kv records.KV, rootDomain string, publisher ChangePublisher, logger *applog.Logger) *Directory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	if rootDomain == "" {
		rootDomain = branding.DefaultRootDomain
	}
	return &Directory{
		kv:         kv,
		rootDomain: rootDomain,
		publisher:  publisher,
		logger:     logger.WithComponent(applog.ComponentSchool),
		validate:   newValidator(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func (d *Directory) RootDomain() string { return d.rootDomain }

// ForHost resolves the tenant from a request host.
func (d *Directory) ForHost(host string) *School {
	return d.forTenant(branding.ParseHost(host, d.rootDomain))
}

// ForTenant returns the School for a subdomain. An empty subdomain is the
// fallback tenant.
func (d *Directory) ForTenant(subdomain string) *School {
	if subdomain == "" {
		subdomain = branding.FallbackSubdomain
	}
	return d.forTenant(branding.Tenant{Subdomain: subdomain, RootDomain: d.rootDomain})
}

func (d *Directory) forTenant(t branding.Tenant) *School {
	logger := d.logger.With(applog.FieldTenant, t.Subdomain)
	store := records.NewStore(records.Namespace(d.kv, t.Subdomain), logger.Slog()).
		WithObserver(&changeObserver{tenant: t.Subdomain, publisher: d.publisher, logger: d.logger})

	return &School{
		tenant:   t,
		store:    store,
		validate: d.validate,
		logger:   logger,
		now:      d.now,
		newID:    d.newID,
	}
}

// Tenants lists every subdomain that has at least one stored document.
func (d *Directory) Tenants(ctx context.Context) ([]string, error) {
	keys, err := d.kv.Keys(ctx, records.TenantRoot)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for _, k := range keys {
		if tenant, _, ok := records.SplitTenantKey(k); ok {
			seen[tenant] = true
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

type changeObserver struct {
	tenant    string
	publisher ChangePublisher
	logger    *applog.Logger
}

func (o *changeObserver) RecordChanged(ctx context.Context, key string, op records.Op) {
	applog.NewStructuredLogger(o.logger).LogRecordChanged(ctx, o.tenant, key, string(op))
	if o.publisher == nil {
		return
	}
	if err := o.publisher.PublishChange(ctx, amqp.NewChangeEvent(o.tenant, key, string(op))); err != nil {
		// the write already succeeded; snapshots catch up on the next change
		o.logger.WarnContext(ctx, "Failed to publish change event",
			applog.FieldTenant, o.tenant,
			applog.FieldKey, key,
			applog.FieldOperation, applog.OpPublish,
			applog.FieldError, err)
	}
}

package records

import (
	"context"
	"strings"
)

// TenantRoot prefixes every namespaced key.
const TenantRoot = "tenant/"

type namespaced struct {
	kv     KV
	prefix string
}

// Namespace scopes every key of kv under the given tenant, so schools
// sharing one backend never see each other's documents.
func Namespace(kv KV, tenant string) KV {
	return &namespaced{kv: kv, prefix: TenantPrefix(tenant)}
}

func TenantPrefix(tenant string) string {
	return TenantRoot + tenant + "/"
}

// SplitTenantKey reverses Namespace for a fully-qualified backend key.
func SplitTenantKey(full string) (tenant, key string, ok bool) {
	rest, found := strings.CutPrefix(full, TenantRoot)
	if !found {
		return "", "", false
	}
	tenant, key, ok = strings.Cut(rest, "/")
	return tenant, key, ok && tenant != ""
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.kv.Get(ctx, n.prefix+key)
}

func (n *namespaced) Put(ctx context.Context, key string, value []byte) error {
	return n.kv.Put(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.kv.Delete(ctx, n.prefix+key)
}

func (n *namespaced) Keys(ctx context.Context, prefix string) ([]string, error) {
	full, err := n.kv.Keys(ctx, n.prefix+prefix)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(full))
	for _, k := range full {
		out = append(out, strings.TrimPrefix(k, n.prefix))
	}
	return out, nil
}

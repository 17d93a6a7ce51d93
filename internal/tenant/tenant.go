// Package tenant resolves which restaurant a request belongs to.
package tenant

import (
	"context"
	"net"
	"net/http"
	"slices"
	"strings"
)

const (
	HeaderSubdomain = "X-Tenant-Subdomain"
	HeaderHost      = "X-Tenant-Host"
)

type contextKey struct{}

// reserved labels never name a restaurant.
var reserved = []string{"localhost", "public", "www"}

func isReserved(label string) bool {
	return slices.Contains(reserved, label)
}

// Resolver picks the tenant slug from headers, falling back to Default.
type Resolver struct {
	Default string
}

func NewResolver(defaultTenant string) *Resolver {
	return &Resolver{Default: defaultTenant}
}

// Resolve returns the tenant for r. An explicit X-Tenant-Subdomain wins, then
// the first label of X-Tenant-Host or Host. Reserved labels such as www
// resolve to Default.
func (res *Resolver) Resolve(r *http.Request) string {
	if sub := strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderSubdomain))); sub != "" {
		if isReserved(sub) {
			return res.Default
		}
		return sub
	}

	host := r.Header.Get(HeaderHost)
	if host == "" {
		host = r.Host
	}

	if sub, ok := subdomain(host); ok {
		return sub
	}
	return res.Default
}

func subdomain(host string) (string, bool) {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	// IPs have dots but no tenant
	if net.ParseIP(host) != nil {
		return "", false
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 || labels[0] == "" || isReserved(labels[0]) {
		return "", false
	}
	return labels[0], true
}

// Middleware stores the resolved tenant in the request context.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := NewContext(r.Context(), res.Resolve(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func NewContext(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, contextKey{}, tenantID)
}

func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

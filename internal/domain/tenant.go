package domain

import "regexp"

// TenantHeader carries the tenant identifier of a request.
const TenantHeader = "X-Okapi-Tenant"

var tenantPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

// ResolveTenant returns the tenant selected by a request header value,
// falling back to fallback when the header is absent.
func ResolveTenant(header, fallback string) (string, error) {
	tenant := header
	if tenant == "" {
		tenant = fallback
	}
	if !tenantPattern.MatchString(tenant) {
		return "", &InvalidTenantError{Tenant: tenant}
	}
	return tenant, nil
}

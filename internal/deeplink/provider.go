package deeplink

import (
	"fmt"
	"net/url"
	"strings"

	"walletbridge/internal/domain"
)

// Known wallet vendors and their universal-link bases.
const (
	ProviderPhantom  = "phantom"
	ProviderSolflare = "solflare"
)

var providerBases = map[string]string{
	ProviderPhantom:  "https://phantom.app/ul/v1",
	ProviderSolflare: "https://solflare.com/ul/v1",
}

// universalLink builds https universal-link request URLs for one vendor.
type universalLink struct {
	name string
	base string
}

func (p *universalLink) Name() string { return p.name }

func (p *universalLink) RequestURL(operation string, params map[string]string) (string, error) {
	q := url.Values{}
	for name, value := range params {
		q.Set(name, value)
	}
	return p.base + "/" + operation + "?" + q.Encode(), nil
}

// unavailable is the fallback provider selected when the configured vendor is
// unknown. Every request fails; nothing is opened.
type unavailable struct {
	name string
}

func (p *unavailable) Name() string { return p.name }

func (p *unavailable) RequestURL(string, map[string]string) (string, error) {
	return "", fmt.Errorf("%w: %q", domain.ErrProviderUnavailable, p.name)
}

// ResolveProvider selects the provider for the configured vendor name at
// startup. baseOverride replaces the vendor's universal-link base when set
// (useful against a local wallet simulator). Unknown names resolve to an
// unavailable provider rather than an error so the rest of the app still
// wires up; only wallet operations fail.
func ResolveProvider(name, baseOverride string) domain.Provider {
	name = strings.ToLower(strings.TrimSpace(name))
	base, ok := providerBases[name]
	if !ok {
		return &unavailable{name: name}
	}
	if baseOverride != "" {
		base = strings.TrimRight(baseOverride, "/")
	}
	return &universalLink{name: name, base: base}
}

var (
	_ domain.Provider = (*universalLink)(nil)
	_ domain.Provider = (*unavailable)(nil)
)

package deeplink

import (
	"fmt"
	"net/url"
	"strings"

	"walletbridge/internal/domain"
)

// Inbound operation keywords. The wallet redirects back to
// <redirect_link>/on<Operation>, so the keyword sits in either the URL path
// (https links) or the host (app-scheme links).
var eventKeywords = map[string]domain.EventKind{
	"onConnect":             domain.EventConnect,
	"onDisconnect":          domain.EventDisconnect,
	"onSignTransaction":     domain.EventSignTransaction,
	"onSignAllTransactions": domain.EventSignAllTransactions,
	"onSignMessage":         domain.EventSignMessage,
}

// Classify parses one redirect URL into a protocol event. A parameter set
// containing errorCode short-circuits to an error event regardless of the
// operation keyword. URLs that fail to parse or name no known operation are
// dropped with ErrMalformedRedirect; no event is produced and no state
// changes. Classification is a pure function of the URL.
func Classify(rawURL string) (domain.Event, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return domain.Event{}, fmt.Errorf("%w: %v", domain.ErrMalformedRedirect, err)
	}

	params := map[string]string{}
	for name, values := range u.Query() {
		if len(values) > 0 {
			params[name] = values[0]
		}
	}

	if _, ok := params["errorCode"]; ok {
		return domain.Event{Kind: domain.EventError, Params: params}, nil
	}

	kind, ok := eventKeywords[operationKeyword(u)]
	if !ok {
		return domain.Event{}, fmt.Errorf("%w: no operation in %q", domain.ErrMalformedRedirect, rawURL)
	}
	return domain.Event{Kind: kind, Params: params}, nil
}

// operationKeyword extracts the candidate keyword: the last path segment when
// a path is present, otherwise the host.
func operationKeyword(u *url.URL) string {
	if p := strings.Trim(u.Path, "/"); p != "" {
		segments := strings.Split(p, "/")
		return segments[len(segments)-1]
	}
	return u.Host
}

// Package deeplink implements the redirect-URL wire format: classifying
// inbound redirects into protocol events and building outbound request URLs
// for the selected wallet provider.
package deeplink

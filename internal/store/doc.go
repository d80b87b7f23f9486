// Package store persists the small cross-run wallet connection record.
package store

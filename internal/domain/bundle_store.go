package domain

import "context"

//go:generate mockgen -source=bundle_store.go -destination=bundle_store_mock.go -package=domain

// BundleStore persists open bundles per user. Released bundles move to
// a separate archive so their members stay retrievable by key for a
// retention window.
type BundleStore interface {
	GetBundles(ctx context.Context, userID string) ([]Bundle, error)
	PutBundles(ctx context.Context, userID string, bundles []Bundle) error
	DeleteBundles(ctx context.Context, userID string) error
	ListBundleUsers(ctx context.Context) ([]string, error)
	PutReleased(ctx context.Context, bundle Bundle) error
	GetReleased(ctx context.Context, userID, key string) (*Bundle, error)
}

package auth

import (
	"context"
	"errors"

	"github.com/chucuoi/flower-storefront/internal/models"
)

var ErrUnknownProvider = errors.New("unknown identity provider")

// Provider is an external OAuth identity provider.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*models.Identity, error)
}

// Registry looks providers up by name.
type Registry map[string]Provider

func NewRegistry(providers ...Provider) Registry {
	r := make(Registry, len(providers))
	for _, p := range providers {
		if p != nil {
			r[p.Name()] = p
		}
	}

	return r
}

func (r Registry) Get(name string) (Provider, error) {
	p, ok := r[name]
	if !ok {
		return nil, ErrUnknownProvider
	}

	return p, nil
}

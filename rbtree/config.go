package rbtree

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig signals an invalid tree configuration.
	ErrInvalidConfig = errors.New("rbtree: invalid configuration")
	// ErrCorruptTree signals that a structural invariant of the tree is violated.
	ErrCorruptTree = errors.New("rbtree: corrupt tree")
	// ErrStaleHandle signals a handle to a node which is no longer part of the tree.
	ErrStaleHandle = errors.New("rbtree: stale handle")
)

// Weight is the type constraint for node values. Values are summed up the
// tree, thus they have to be numeric.
type Weight interface {
	~int | ~int64 | ~float64
}

// Option configures a tree.
type Option func(*config) error

type config struct {
	capacity int
}

// WithCapacity pre-allocates arena storage for n nodes.
func WithCapacity(n int) Option {
	return func(cfg *config) error {
		if n < 0 {
			return fmt.Errorf("%w: negative capacity %d", ErrInvalidConfig, n)
		}
		cfg.capacity = n
		return nil
	}
}

func (cfg *config) apply(opts []Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return err
		}
	}
	return nil
}

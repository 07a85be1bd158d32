// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package storage

import "context"

// Namespace returns a view of s that prefixes every key. Closing the view
// does not close s.
func Namespace(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return &namespaced{next: s, prefix: prefix}
}

type namespaced struct {
	next   Store
	prefix string
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.next.Get(ctx, n.prefix+key)
}

func (n *namespaced) Put(ctx context.Context, key string, value []byte) error {
	return n.next.Put(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.next.Delete(ctx, n.prefix+key)
}

func (n *namespaced) Close() error { return nil }

// Package records is the key-value record store every collection is kept in.
//
// Each named key holds one JSON document. Backends implement KV; Store adds
// typed, shape-tolerant decoding on top.
package records

import "context"

// Ports for storage backends.
type (
	KV interface {
		// Get returns the raw document and whether the key exists.
		Get(ctx context.Context, key string) (value []byte, found bool, err error)
		// Put overwrites the document unconditionally.
		Put(ctx context.Context, key string, value []byte) error
		Delete(ctx context.Context, key string) error
		// Keys lists every key starting with prefix, in ascending order.
		Keys(ctx context.Context, prefix string) ([]string, error)
	}

	// Observer is told about every successful write.
	Observer interface {
		RecordChanged(ctx context.Context, key string, op Op)
	}
)

type Op string

const (
	OpSave   Op = "save"
	OpRemove Op = "remove"
)

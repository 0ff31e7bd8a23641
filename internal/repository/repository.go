package repository

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	errDecodeDocumentFmt = "failed to decode document %s: %w"
	errEncodeDocumentFmt = "failed to encode document %s: %w"
)

// DocumentStore persists one JSON document per key. Update runs fn with
// the current body and writes the result; updates to the same key are
// serialized so a read-modify-write never loses a concurrent write.
type DocumentStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}

// LoadList reads a list document. A missing document is an empty list.
func LoadList[T any](ctx context.Context, store DocumentStore, key string) ([]T, error) {
	body, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return decodeList[T](key, body)
}

// MutateList applies fn to the list stored at key and writes the result
// back atomically. If fn returns an error nothing is written.
func MutateList[T any, R any](ctx context.Context, store DocumentStore, key string, fn func(items []T) ([]T, R, error)) (R, error) {
	var out R
	err := store.Update(ctx, key, func(current []byte) ([]byte, error) {
		items, err := decodeList[T](key, current)
		if err != nil {
			return nil, err
		}

		next, result, err := fn(items)
		if err != nil {
			return nil, err
		}
		out = result

		if next == nil {
			next = []T{}
		}
		body, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf(errEncodeDocumentFmt, key, err)
		}
		return body, nil
	})
	return out, err
}

func decodeList[T any](key string, body []byte) ([]T, error) {
	if len(body) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf(errDecodeDocumentFmt, key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package fingerprint computes stable content hashes of pointcut declarations,
// so that semantically identical declarations can be recognized regardless of
// the name they were registered under.
package fingerprint

import (
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"hash"
	"sync"
)

// Hasher accumulates the structure of one or more [Hashable] values.
type Hasher struct {
	hash hash.Hash
}

// Hashable is implemented by values that can contribute to a fingerprint.
type Hashable interface {
	Hash(h *Hasher) error
}

var pool = sync.Pool{New: func() any { return &Hasher{hash: sha512.New()} }}

// Fingerprint returns the URL-safe base64 encoded SHA-512 digest of val. A nil
// value produces the digest of the empty input.
func Fingerprint(val Hashable) (string, error) {
	h, _ := pool.Get().(*Hasher)
	defer func() {
		h.hash.Reset()
		pool.Put(h)
	}()

	if val != nil {
		if err := val.Hash(h); err != nil {
			return "", err
		}
	}

	var buf [sha512.Size]byte
	return base64.URLEncoding.EncodeToString(h.hash.Sum(buf[:0])), nil
}

// Named writes a delimited record called name, made of the provided values in
// order. Records nest, which keeps distinct shapes from colliding.
func (h *Hasher) Named(name string, vals ...Hashable) error {
	if _, err := fmt.Fprintf(h.hash, "\x01%s\x02", name); err != nil {
		return fmt.Errorf("hashing %q: %w", name, err)
	}

	for idx, val := range vals {
		if _, err := fmt.Fprintf(h.hash, "\x01%d\x02", idx); err != nil {
			return fmt.Errorf("hashing %q[%d]: %w", name, idx, err)
		}
		if err := val.Hash(h); err != nil {
			return err
		}
		if _, err := fmt.Fprint(h.hash, "\x03"); err != nil {
			return fmt.Errorf("hashing %q[%d]: %w", name, idx, err)
		}
	}

	_, err := fmt.Fprint(h.hash, "\x03", name)
	return err
}

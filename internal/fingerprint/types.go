// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package fingerprint

import (
	"io"
	"strconv"
)

type Bool bool

func (b Bool) Hash(h *Hasher) error {
	_, err := io.WriteString(h.hash, strconv.FormatBool(bool(b)))
	return err
}

type Int int

func (i Int) Hash(h *Hasher) error {
	_, err := io.WriteString(h.hash, strconv.Itoa(int(i)))
	return err
}

type String string

func (s String) Hash(h *Hasher) error {
	_, err := io.WriteString(h.hash, string(s))
	return err
}

// Optional hashes a string that may be absent. An absent value and an empty
// one produce different fingerprints.
type Optional struct {
	Value string
	Set   bool
}

func (o Optional) Hash(h *Hasher) error {
	if !o.Set {
		return h.Named("none")
	}
	return h.Named("some", String(o.Value))
}

// List hashes its length followed by each of its items in order.
type List[T Hashable] []T

func (l List[T]) Hash(h *Hasher) error {
	list := make([]Hashable, len(l)+1)
	list[0] = Int(len(l))
	for idx, val := range l {
		list[idx+1] = val
	}

	return h.Named("list", list...)
}

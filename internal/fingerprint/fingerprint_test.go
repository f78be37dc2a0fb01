// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DataDog/cflow/internal/fingerprint"
)

func TestFingerprint(t *testing.T) {
	cases := map[string]struct {
		hashable fingerprint.Hashable
		hash     string
	}{
		"nil": {
			hashable: nil,
			hash:     "z4PhNX7vuL3xVChQ1m2AB9Yg5AULVxXcg_SpIdNs6c5H0NE8XYXysP-DGNKHfuwvY7kxvUdBeoGlODJ6-SfaPg==",
		},
		"bool.true": {
			hashable: fingerprint.Bool(true),
			hash:     "kSDNX67wegjpcf8CSj_L6h46a0QUKm2CyijGxC5PhSWVvPU9gdd28QVBBFq9t8N5UGKUFdDcZsjYbGSlYG0y3g==",
		},
		"string.empty": {
			hashable: fingerprint.String(""),
			hash:     "z4PhNX7vuL3xVChQ1m2AB9Yg5AULVxXcg_SpIdNs6c5H0NE8XYXysP-DGNKHfuwvY7kxvUdBeoGlODJ6-SfaPg==",
		},
		"list.empty": {
			hashable: fingerprint.List[fingerprint.Hashable]{},
			hash:     "694_EPPzcQS8IJWmv4sxWZrSlHzcKAJoolH265TUzk5OE1HPYVrIkRPsOHTn3ZIgYz8wuIqBln5yfhTio_MFqg==",
		},
		"list.items": {
			hashable: fingerprint.List[fingerprint.Hashable]{fingerprint.Bool(true), fingerprint.Int(0), fingerprint.String("test")},
			hash:     "RhBvcI5pNAl8TwC67UQypsmZTcj-Hbc9Zh2rAkTklU_rb4G8cORxp2dJHc1cPXq218SkkCCqPM4lU0te3a4Ufg==",
		},
		"optional.unset": {
			hashable: fingerprint.Optional{},
			hash:     "_omMYFhpUdZwVsHfxxYhd7W5KtUWwO_My7jRzC6CvwCFsPJaXOUXtD6D1vVW2A4U5S6BuCFBBB8zT3NiTwNDNw==",
		},
		"optional.empty": {
			hashable: fingerprint.Optional{Set: true},
			hash:     "3YQKDVqXOqg3ZrUkkgErTUkpLle3IVrtqvcEWtCa9qdyAV430x484q3NCgM6n1hm7ZfCbjB-q7ZfiJGdf7YnYg==",
		},
		"optional.value": {
			hashable: fingerprint.Optional{Value: "Save", Set: true},
			hash:     "L78OyPedLDsD5GL-7b_s3lmevLj5hLSNl2Cr57WDL24bnRxukJNNKZTaANS9Er4iXC3OU0sD8DyYyxUbWl2YBQ==",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			hash, err := fingerprint.Fingerprint(tc.hashable)
			require.NoError(t, err)
			require.Equal(t, tc.hash, hash)
		})
	}
}

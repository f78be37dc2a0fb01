// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package config

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/cflow/pointcut"
	"github.com/DataDog/cflow/pointcut/callstack"
	"github.com/DataDog/cflow/pointcut/cflow"
)

func TestLoad(t *testing.T) {
	file, err := Load(context.Background(), filepath.Join("testdata", "shop.yml"), true)
	require.NoError(t, err)

	names := make([]string, len(file.Pointcuts))
	for idx, decl := range file.Pointcuts {
		names[idx] = decl.Name
	}
	require.Equal(t, []string{"everything", "checkout-flow", "checkout-service", "order-placement"}, names)

	everything, found := file.Lookup("everything")
	require.True(t, found)
	assert.Equal(t, pointcut.True, everything.Pointcut)
	assert.Equal(t, filepath.Join("testdata", "base.yml"), everything.Source)
	assert.Equal(t, 4, everything.Line)

	flow, found := file.Lookup("checkout-flow")
	require.True(t, found)
	assert.Equal(t, "Invocations made while placing an order.", flow.Description)
	assert.Equal(t, 4, flow.Line)
	pc, ok := flow.Pointcut.(*cflow.Pointcut)
	require.True(t, ok)
	assert.Equal(t, pointcut.MustTypeName("*example.com/shop/checkout.Service"), pc.Target())
	method, ok := pc.MethodName()
	assert.True(t, ok)
	assert.Equal(t, "PlaceOrder", method)

	service, found := file.Lookup("checkout-service")
	require.True(t, found)
	_, ok = service.Pointcut.(*cflow.Pointcut).MethodName()
	assert.False(t, ok)

	_, found = file.Lookup("nope")
	require.False(t, found)

	dups, err := file.Duplicates()
	require.NoError(t, err)
	require.Len(t, dups, 1)
	assert.Equal(t, "checkout-flow", dups[0].First.Name)
	assert.Equal(t, "order-placement", dups[0].Second.Name)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join("testdata", "does-not-exist.yml"), false)
	require.Error(t, err)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]struct {
		document string
		message  string
	}{
		"unknown kind": {
			document: "pointcuts:\n  - name: a\n    pointcut:\n      bogus: {}\n",
			message:  `"a": line 4: unknown pointcut kind "bogus"`,
		},
		"invalid type": {
			document: "pointcuts:\n  - name: a\n    pointcut:\n      control-flow:\n        type: \"0\"\n",
			message:  `"a": line 5: invalid TypeName syntax: "0"`,
		},
		"missing type": {
			document: "pointcuts:\n  - name: a\n    pointcut:\n      control-flow:\n        method: Serve\n",
			message:  `"a": line 5: invalid TypeName syntax: ""`,
		},
		"no name": {
			document: "pointcuts:\n  - pointcut:\n      always: {}\n",
			message:  "line 2: pointcut declaration has no name",
		},
		"no pointcut": {
			document: "pointcuts:\n  - name: a\n",
			message:  `line 2: "a" has no pointcut`,
		},
		"not a singleton": {
			document: "pointcuts:\n  - name: a\n    pointcut:\n      always: {}\n      control-flow: {type: net/http.Server}\n",
			message:  `"a": line 4: not a singleton mapping`,
		},
		"always with parameters": {
			document: "pointcuts:\n  - name: a\n    pointcut:\n      always: {really: true}\n",
			message:  `"a": line 4: always takes no parameters`,
		},
		"duplicate name": {
			document: "pointcuts:\n  - name: a\n    pointcut:\n      always: {}\n  - name: a\n    pointcut:\n      always: {}\n",
			message:  `duplicate pointcut name "a" (line 5, previously declared on line 2)`,
		},
		"extends": {
			document: "extends: [other.yml]\npointcuts: []\n",
			message:  "extends is only supported when loading from a file",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(context.Background(), strings.NewReader(tc.document), false)
			require.EqualError(t, err, tc.message)
		})
	}
}

func TestParse_MalformedDeclaration(t *testing.T) {
	_, err := Parse(context.Background(), strings.NewReader("pointcuts:\n  - just-a-name\n"), false)
	require.ErrorContains(t, err, "line 2: yaml: unmarshal errors:")
}

func TestDuplicates_PointerAndValue(t *testing.T) {
	document := "pointcuts:\n" +
		"  - name: by-pointer\n    pointcut:\n      control-flow:\n        type: \"*net/http.Server\"\n" +
		"  - name: by-value\n    pointcut:\n      control-flow:\n        type: net/http.Server\n"
	file, err := Parse(context.Background(), strings.NewReader(document), true)
	require.NoError(t, err)

	dups, err := file.Duplicates()
	require.NoError(t, err)
	require.Len(t, dups, 1)
	assert.Equal(t, "by-pointer", dups[0].First.Name)
	assert.Equal(t, "by-value", dups[0].Second.Name)
}

func TestParse_Validation(t *testing.T) {
	invalid := map[string]string{
		"empty":          "",
		"unknown kind":   "pointcuts:\n  - name: a\n    pointcut:\n      bogus: {}\n",
		"bad name":       "pointcuts:\n  - name: Not_Kebab\n    pointcut:\n      always: {}\n",
		"bad type":       "pointcuts:\n  - name: a\n    pointcut:\n      control-flow:\n        type: \"net/http.\"\n",
		"empty method":   "pointcuts:\n  - name: a\n    pointcut:\n      control-flow:\n        type: net/http.Server\n        method: \"\"\n",
		"extra property": "pointcuts: []\nunknown: true\n",
	}

	for name, document := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(context.Background(), strings.NewReader(document), true)
			require.Error(t, err)
			if document != "" {
				var verr *jsonschema.ValidationError
				require.ErrorAs(t, err, &verr)
			}
		})
	}

	t.Run("empty method without validation", func(t *testing.T) {
		file, err := Parse(context.Background(), strings.NewReader(invalid["empty method"]), false)
		require.NoError(t, err)
		require.Len(t, file.Pointcuts, 1)
	})
}

func TestParse_Logger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.TraceLevel)
	ctx := log.WithContext(context.Background())

	file, err := Parse(ctx, strings.NewReader("pointcuts:\n  - name: server\n    pointcut:\n      control-flow:\n        type: net/http.Server\n"), true)
	require.NoError(t, err)

	pc := file.Pointcuts[0].Pointcut.(*cflow.Pointcut)
	require.True(t, pc.MatchesStack(callstack.Frames{{Package: "net/http", Receiver: "Server", Function: "Serve"}}))
	require.Contains(t, buf.String(), "evaluated control flow")
}

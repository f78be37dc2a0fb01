// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package callstack_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DataDog/cflow/pointcut/callstack"
)

func TestParseFunction(t *testing.T) {
	cases := map[string]callstack.Frame{
		"main.main":                          {Package: "main", Function: "main"},
		"runtime.goexit":                     {Package: "runtime", Function: "goexit"},
		"net/http.(*Server).Serve":           {Package: "net/http", Receiver: "Server", Function: "Serve"},
		"net/http.HandlerFunc.ServeHTTP":     {Package: "net/http", Receiver: "HandlerFunc", Function: "ServeHTTP"},
		"net/http.(*Server).Serve.func1":     {Package: "net/http", Receiver: "Server", Function: "Serve.func1"},
		"net/http.HandlerFunc.ServeHTTP.func2": {
			Package: "net/http", Receiver: "HandlerFunc", Function: "ServeHTTP.func2",
		},
		"example.com/shop.NewCart.func1":                {Package: "example.com/shop", Function: "NewCart.func1"},
		"example.com/shop.NewCart.gowrap1":              {Package: "example.com/shop", Function: "NewCart.gowrap1"},
		"example.com/shop.NewCart.deferwrap2":           {Package: "example.com/shop", Function: "NewCart.deferwrap2"},
		"example.com/shop.init.0":                       {Package: "example.com/shop", Function: "init.0"},
		"example.com/shop.glob..func1":                  {Package: "example.com/shop", Function: "glob..func1"},
		"example.com/shop.(*Cart).Checkout-fm":          {Package: "example.com/shop", Receiver: "Cart", Function: "Checkout"},
		"example.com/shop.Set[...].Add":                 {Package: "example.com/shop", Receiver: "Set", Function: "Add"},
		"example.com/shop.(*Set[...]).Add":              {Package: "example.com/shop", Receiver: "Set", Function: "Add"},
		"example.com/shop.Map[go.shape.string].Keys":    {Package: "example.com/shop", Receiver: "Map", Function: "Keys"},
		"example.com/shop.Index[example.com/x.T].func1": {Package: "example.com/shop", Function: "Index.func1"},
		"gopkg.in/yaml%2ev3.(*parser).parse":            {Package: "gopkg.in/yaml.v3", Receiver: "parser", Function: "parse"},
	}

	for symbol, expected := range cases {
		t.Run(symbol, func(t *testing.T) {
			frame, ok := callstack.ParseFunction(symbol)
			require.True(t, ok)
			require.Equal(t, expected, frame)
		})
	}
}

func TestParseFunction_Invalid(t *testing.T) {
	for _, symbol := range []string{"", "main", ".main", "net/http.", "net/http.(*Server", "net/http.(*Server)"} {
		t.Run(symbol, func(t *testing.T) {
			_, ok := callstack.ParseFunction(symbol)
			require.False(t, ok)
		})
	}
}

func TestFrame_DeclaringType(t *testing.T) {
	method := callstack.Frame{Package: "net/http", Receiver: "Server", Function: "Serve"}
	require.Equal(t, "net/http.Server", method.DeclaringType())
	require.Equal(t, "net/http.Server.Serve", method.String())

	function := callstack.Frame{Package: "net/http", Function: "ListenAndServe"}
	require.Equal(t, "net/http", function.DeclaringType())
	require.Equal(t, "net/http.ListenAndServe", function.String())
}

// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package callstack_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DataDog/cflow/pointcut/callstack"
)

const dump = `goroutine 7 [running]:
example.com/shop/checkout.(*Service).PlaceOrder(0xc000010000, {0x1, 0x2})
	/src/shop/checkout/service.go:42 +0x65
example.com/shop/api.handleOrder(...)
	/src/shop/api/orders.go:17
net/http.HandlerFunc.ServeHTTP(0x0?, {0x0?, 0x0?}, 0x0?)
	/usr/local/go/src/net/http/server.go:2220 +0x29
created by net/http.(*Server).Serve
	/usr/local/go/src/net/http/server.go:3285 +0x4b4

goroutine 1 [IO wait]:
main.main()
	/src/shop/main.go:12 +0x25
`

func TestParseTraceback(t *testing.T) {
	goroutines, err := callstack.ParseTraceback(strings.NewReader(dump))
	require.NoError(t, err)
	require.Len(t, goroutines, 2)

	require.Equal(t, 7, goroutines[0].ID)
	require.Equal(t, "running", goroutines[0].State)
	require.Equal(t, callstack.Frames{
		{Package: "example.com/shop/checkout", Receiver: "Service", Function: "PlaceOrder"},
		{Package: "example.com/shop/api", Function: "handleOrder"},
		{Package: "net/http", Receiver: "HandlerFunc", Function: "ServeHTTP"},
	}, goroutines[0].Frames)

	require.Equal(t, 1, goroutines[1].ID)
	require.Equal(t, "IO wait", goroutines[1].State)
	require.Equal(t, callstack.Frames{{Package: "main", Function: "main"}}, goroutines[1].Frames)
}

func TestParseTraceback_Empty(t *testing.T) {
	goroutines, err := callstack.ParseTraceback(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, goroutines)
}

// Package client is the telemetry client behind the hub.
//
// A Client converts errors (with their wrapped causes), messages and
// finished transactions into events, applies the scope they were captured
// with, and queues them on a transport. Delivery happens off the request
// path; Flush waits for it with a deadline.
//
//	t, _ := transport.New(ctx, transport.Config{Kind: transport.KindMemory})
//	c, _ := client.NewClient(client.Config{Environment: "staging", EnableTracing: true}, t)
//	hub.SetDefault(hub.New(c, scope.New()))
package client

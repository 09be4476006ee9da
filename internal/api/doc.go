// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the assistant backend.
//
// Every request goes through one Client, which attaches the current bearer
// token, decodes the backend's response envelope, and maps HTTP failures to
// sentinel errors. A 401 from any endpoint fires the registered
// OnUnauthorized hook so the rest of the application can tear the session
// down; the client itself never retries or refreshes.
//
// # Usage
//
//	client := api.NewClient(cfg.APIURL).
//	    WithTokenSource(store.Token).
//	    OnUnauthorized(func() { store.Logout() })
//
//	sess, err := client.Login(ctx, "a@x.com", "secret")
package api

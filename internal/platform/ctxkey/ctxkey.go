// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// # Safety
//
// Keys use a private type so lookups never collide with string keys set by
// third-party packages.
package ctxkey

type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyUser is the context key for the authenticated [sec.AuthClaims].
	KeyUser key = "user"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)

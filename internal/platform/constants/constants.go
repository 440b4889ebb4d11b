// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: HTTP server and shutdown deadlines.
  - Rate Limiting: per-IP limiter and per-account login throttling.
  - Portfolio: tag limits, page sizes and search batch sizes.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "hwsphere-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request,
	// multipart uploads included.
	DefaultReadTimeout = 60 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 60 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute

	// LoginMaxAttempts is the number of failed logins tolerated per window.
	LoginMaxAttempts = 5

	// LoginAttemptWindow is the sliding window for failed login counting.
	LoginAttemptWindow = 15 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "hwsphere.app"

	// RefreshTokenCookieName is the name of the cookie that stores the refresh token.
	RefreshTokenCookieName = "refresh_token"

	// RefreshTokenCookiePath is the scoped path for the refresh token cookie.
	RefreshTokenCookiePath = "/api/v1/auth"
)

// # Portfolio

const (
	// MaxProjectTags is the upper bound on tags carried by one project.
	MaxProjectTags = 4

	// SearchRecentBatch is the number of recent rows scanned for description matches.
	SearchRecentBatch = 50

	// SearchMaxTagTerms is the array-overlap term limit for the tag sub-query.
	SearchMaxTagTerms = 10

	// MaintenanceBatchSize is the default write batch for bulk repair jobs.
	MaintenanceBatchSize = 500

	// ObjectKeyPrefix is the folder holding every uploaded project file.
	ObjectKeyPrefix = "projectFiles"

	// MaxInlineCodeBytes caps the code object inlined into a project read.
	MaxInlineCodeBytes = 2 << 20
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderAuthorization = "Authorization"
	HeaderRetryAfter    = "Retry-After"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaCore  = "core"
	SchemaUsers = "users"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession      = "auth:session:"
	RedisPrefixLoginAttempt = "auth:login_attempt:"
)

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package voteclient is an HTTP client for the voter-facing routes of the
// voting API. Every request carries the voter's session cookie. Failures are
// either a *TransportError (no usable response) or a *RejectedError carrying
// the server's message.
package voteclient

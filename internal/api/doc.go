// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP transport for the chat service.
//
// Every response is wrapped in an envelope {error, message, data}. A set
// error flag or a non-2xx status becomes an *APIError that keeps the
// server's message; ServerMessage extracts it for display.
//
// # Endpoints
//
//   - POST /api/v1/auth/user/authenticate: Authenticate
//   - POST /api/v1/auth/user/register: Register
//   - GET  /api/v1/chat/{id}/chat_messages: FetchHistory (bearer)
//   - POST /api/v1/chat/prompt: SendPrompt (bearer)
//   - GET  /api/v1/chat/recent: FetchRecent (bearer)
//
// # Usage
//
//	client := api.NewClient(cfg.API.BaseURL, store).
//	    WithTimeout(cfg.API.Timeout.Std()).
//	    WithRateLimit(cfg.API.RequestsPerSecond)
//
//	res, err := client.SendPrompt(ctx, nil, "hello")
//	// res.RoomID is the newly assigned room
package api

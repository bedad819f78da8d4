// Package models defines the core domain models shared by the payment
// client, the request store, and the reference backend.
//
// # Models
//
//   - User: a directory entry with a role (admin or user)
//   - PaymentRequest: a bill split into per-person payment requests
//   - Participant: one person's share inside a request
//   - PaymentRequestDraft: the payload for creating a request
//
// # Design Principles
//
// 1. **Phone as join key**: participants are matched to users by phone
// number, not by foreign key. A participant is a request-scoped snapshot
// of a user's name and phone at creation time; a later profile change
// does not rewrite history.
//
// 2. **Advisory totals**: the sum of participant amounts is not forced to
// equal TotalAmount. An admin may split a bill partially, so the total is
// informational only.
//
// 3. **Wire-shaped**: JSON tags match the backend contract exactly, so the
// same structs serve both the API client and the server handlers.
package models

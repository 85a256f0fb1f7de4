// Package models defines the core domain models for Listling.
//
// # Models
//
//   - User: a registered account; carries a role (USER or ADMIN)
//   - Principal: the authenticated actor on a request (id + role)
//   - List: a shared list with one owner, members and items
//   - ListItem: a line entry on a list with an amount and a
//     completion status
//
// Memberships are not modeled as a standalone struct: a membership is
// the (list, user) association itself, and every read of it surfaces
// the member's public user projection.
//
// # Design principles
//
//  1. Models are plain data with no storage or transport concerns
//  2. Relationships are held as ids plus optional nested projections,
//     avoiding circular references
//  3. A list's activity state (active vs. history) is derived from its
//     items, never stored
package models

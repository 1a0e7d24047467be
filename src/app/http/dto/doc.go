// Package dto contains Data Transfer Objects for admin API requests and responses.
//
// DTOs are separate from domain types so that the JSON shape of the admin
// API can change without touching the pool or the client.
//
// Naming convention:
//   - Request types: <Action>Request (e.g., QueryRequest)
//   - Response types: <Resource>Response (e.g., PoolResponse)
package dto

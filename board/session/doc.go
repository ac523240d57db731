// Package session issues and resolves the bearer tokens handed to users
// after they register or log in.
//
// A token is 32 random bytes, encoded as base64url, which maps to the id
// of the user it was issued for. The token says nothing about the user,
// it is only useful as a key into the TokenStore.
//
// Tokens never expire. They are lost when the TokenStore is cleared, which
// for the default in-memory store means a process restart. Logging out only
// removes the client copy, anyone holding the token can still use it.
//
// Passwords are never kept in plain text, only their bcrypt hash is stored.
package session

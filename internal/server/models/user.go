// Package models defines the server-side persistence models.
package models

import "time"

// User is an account on the pod server. The server stores only the salt and
// the verifier; the master key never leaves the client.
type User struct {
	ID        string
	Username  string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}

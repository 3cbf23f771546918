// Package httpapi exposes the pod server over a JSON HTTP API.
package httpapi

import "time"

// []byte fields marshal as base64 strings, which is the wire form for salts,
// verifiers and payload content.

type registerRequest struct {
	Username string `json:"username"`
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

type saltResponse struct {
	Salt []byte `json:"salt"`
}

type loginRequest struct {
	Username string `json:"username"`
	Verifier []byte `json:"verifier"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type writeResourceRequest struct {
	Path      string `json:"path"`
	Content   []byte `json:"content"`
	Encrypted bool   `json:"encrypted"`
}

type resourceResponse struct {
	Path      string    `json:"path"`
	Content   []byte    `json:"content"`
	Encrypted bool      `json:"encrypted"`
	UpdatedAt time.Time `json:"updated_at"`
}

type fileInfo struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

type containerResponse struct {
	Files   []fileInfo `json:"files"`
	Subdirs []string   `json:"subdirs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

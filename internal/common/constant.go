// Package common contains shared constants and sentinel errors used across
// HealthPod components.
package common

// EncSuffix is the double suffix marking a stored object as an encrypted,
// container-wrapped JSON payload.
const EncSuffix = ".json.enc.ttl"

// AclSuffix names the sidecar access-control object of a stored resource.
const AclSuffix = ".acl"

// DataRoot is the logical root under which all application data lives
// inside a pod.
const DataRoot = "healthpod/data"

// Well-known data directories under DataRoot.
const (
	BloodPressureDir = "blood_pressure"
	ProfileDir       = "profile"
)

// AuthHeaderName is the HTTP header carrying the bearer access token.
const AuthHeaderName = "Authorization"

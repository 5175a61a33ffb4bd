package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// artifactDigest hashes a result hash together with the options that affect
// the rendered bytes. ArtifactKeyOpts always marshals, so the error is
// unreachable.
func artifactDigest(resultHash string, opts ArtifactKeyOpts) string {
	data, _ := json.Marshal(struct {
		Result string          `json:"result"`
		Opts   ArtifactKeyOpts `json:"opts"`
	}{resultHash, opts})
	return Hash(data)
}

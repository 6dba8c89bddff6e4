// Package rollout implements the deterministic percentage gate used for
// feature rollout and per-rule rollout. Bucketing is pinned to
// MurmurHash3/32 with seed 0 so that entity-to-bucket assignment stays
// interoperable with the server and other language SDKs.
package rollout

import (
	"github.com/spaolacci/murmur3"
)

// seed is the fixed seed the wire protocol requires; changing it would
// re-bucket every entity against every resource.
const seed uint32 = 0

// bucketKey returns the stable string this package hashes for one
// (entityID, resourceID) pair.
func bucketKey(entityID, resourceID string) string {
	return entityID + ":" + resourceID
}

// hash32 returns the 32-bit MurmurHash3 of the bucket key.
func hash32(entityID, resourceID string) uint32 {
	return murmur3.Sum32WithSeed([]byte(bucketKey(entityID, resourceID)), seed)
}

// normalizedPercent maps a 32-bit hash onto [0, 100).
func normalizedPercent(h uint32) float64 {
	return (float64(h) / 4294967296.0) * 100.0
}

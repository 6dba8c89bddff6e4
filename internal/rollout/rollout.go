package rollout

// IsIncluded deterministically decides whether entityID is "in" the
// rollout for resourceID at rolloutPercentage.
//
// Special cases:
//   - rolloutPercentage == 0: always excluded.
//   - rolloutPercentage == 100: always included.
//
// Otherwise the decision is h(entityID, resourceID) normalized to [0, 100)
// compared against rolloutPercentage; the same triple always yields the
// same decision (determinism), and across many entities the fraction of
// "in" decisions converges to rolloutPercentage/100 (uniformity).
func IsIncluded(entityID, resourceID string, rolloutPercentage uint32) bool {
	if rolloutPercentage == 0 {
		return false
	}
	if rolloutPercentage >= 100 {
		return true
	}
	return normalizedPercent(hash32(entityID, resourceID)) < float64(rolloutPercentage)
}

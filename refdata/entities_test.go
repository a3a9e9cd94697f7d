package refdata_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/premium-engine/refdata"
)

// =============================================================================
// WINDOW SEMANTICS
// =============================================================================

func TestWindow_ActiveOn_Boundaries(t *testing.T) {
	// GIVEN: A window [Jan 1, Mar 31]
	// THEN: Both boundary dates are inside, adjacent dates are not

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	w := refdata.Window{ValidFrom: from, ValidTo: &to, Active: true}

	assert.True(t, w.ActiveOn(from))
	assert.True(t, w.ActiveOn(to))
	assert.False(t, w.ActiveOn(from.AddDate(0, 0, -1)))
	assert.False(t, w.ActiveOn(to.AddDate(0, 0, 1)))
}

func TestWindow_InactiveFlag_Overrides(t *testing.T) {
	w := refdata.Forever(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	w.Active = false

	assert.False(t, w.ActiveOn(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestWindow_OpenEnded(t *testing.T) {
	w := refdata.Forever(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.True(t, w.ActiveOn(time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.ActiveOn(time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC)))
}

// =============================================================================
// BUNDLE MATCHING
// =============================================================================

func TestRiskBundle_AppliesTo_NeedsAllCodes(t *testing.T) {
	b := refdata.RiskBundle{RequiredRiskCodes: []string{"A", "B"}}

	assert.True(t, b.AppliesTo([]string{"A", "B"}))
	assert.True(t, b.AppliesTo([]string{"C", "B", "A"}), "extra selections do not disqualify")
	assert.False(t, b.AppliesTo([]string{"A"}))
	assert.False(t, b.AppliesTo(nil))
}

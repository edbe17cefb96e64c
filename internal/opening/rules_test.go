package opening

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"opening_ai/internal/config"
)

func TestInterestBP(t *testing.T) {
	r := DefaultRules()
	cases := []struct {
		tick int
		want int
	}{
		{1, 10700},
		{2, 10699},
		{17, 10695},
		{960, 10400},
		{1920, 10100},
		{1921, 10100},
		{5000, 10100},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, r.InterestBP(c.tick), "tick %d", c.tick)
	}
}

func TestLandAndLayerTicks(t *testing.T) {
	r := DefaultRules()
	assert.Equal(t, 12, r.Land(3))
	assert.Equal(t, 1104, r.Land(24))
	assert.Equal(t, TopTierLand, r.Land(73))

	assert.Equal(t, 4, r.LayerTicks(r.Land(23)))
	assert.Equal(t, 3, r.LayerTicks(1104))
	assert.Equal(t, 3, r.LayerTicks(r.Land(72)))
	assert.Equal(t, 2, r.LayerTicks(TopTierLand))
}

func TestNewRulesOverlaysConfig(t *testing.T) {
	rc := &config.RulesConfig{InitialTroops: 1000, LayerTiers: []config.LayerTier{{MinLand: 10000, Ticks: 2}}}
	r := NewRules(rc)
	assert.Equal(t, 1000, r.InitialTroops)
	assert.Equal(t, 3, r.InitialLayer)
	assert.Equal(t, []Tier{{MinLand: 10000, Ticks: 2}}, r.Tiers)
	assert.Equal(t, 4, r.LayerTicks(9999))
	assert.Equal(t, DefaultRules(), NewRules(nil))
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, 2, floorDiv(7, 3))
	assert.Equal(t, -3, floorDiv(-7, 3))
	assert.Equal(t, -1, floorDiv(-1, 1024))
	assert.Equal(t, 0, floorDiv(0, 5))
}

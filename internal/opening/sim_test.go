package opening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opening_ai/internal/util"
)

var standardBase = Opening{
	{64, 15.33}, {81, 15.53}, {91, 35.55},
	{164, 0.10}, {172, 22.17}, {181, 31.35}, {191, 76.27},
}

func run(t *testing.T, o Opening, maxTicks int) Result {
	t.Helper()
	res, err := NewSimulator(DefaultRules()).Run(o, maxTicks)
	require.NoError(t, err)
	return res
}

func TestRunGolden(t *testing.T) {
	cases := []struct {
		name     string
		opening  Opening
		maxTicks int
		want     Result
	}{
		{"idle_10", nil, 10, Result{Land: 12, Troops: 547, Success: true, Tick: 10, LayerIndex: 3, AttackTimeLeft: -1}},
		{"idle_100", nil, 100, Result{Land: 12, Troops: 995, Success: true, Tick: 100, LayerIndex: 3, AttackTimeLeft: -1}},
		{"idle_505", nil, 505, Result{Land: 12, Troops: 10467, Success: true, Tick: 505, LayerIndex: 3, AttackTimeLeft: -1}},
		{"single_64", Opening{{64, 15.33}}, 505, Result{Land: 60, Troops: 10056, Success: true, Tick: 505, LayerIndex: 6, AttackTimeLeft: -1}},
		{"standard_base", standardBase, 505, Result{Land: 684, Troops: 8850, Success: true, Tick: 505, LayerIndex: 19, AttackTimeLeft: -1}},
		{"manual_462", standardBase.Insert(Attack{462, 15.0}), 505, Result{Land: 1104, Troops: 8116, Success: true, Tick: 505, LayerIndex: 24, AttackTimeLeft: -1}},
		{"same_tick_joins", Opening{{10, 50}, {10, 20}}, 30, Result{Land: 84, Troops: 240, Success: true, Tick: 30, LayerIndex: 7, AttackTimeLeft: 2}},
		{"single_tick_10", Opening{{10, 70}}, 30, Result{Land: 84, Troops: 179, Success: true, Tick: 30, LayerIndex: 7, AttackTimeLeft: 2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, run(t, c.opening, c.maxTicks))
		})
	}
}

func TestRunFirstLayerTiming(t *testing.T) {
	o := Opening{{64, 15.33}}
	// Seven countdown ticks, the layer resolves on tick 71, then four-tick layers.
	assert.Equal(t, Result{Land: 12, Troops: 678, Success: true, Tick: 70, LayerIndex: 3, AttackTimeLeft: 0}, run(t, o, 70))
	assert.Equal(t, Result{Land: 24, Troops: 678, Success: true, Tick: 71, LayerIndex: 4, AttackTimeLeft: 3}, run(t, o, 71))
	assert.Equal(t, 1, run(t, o, 73).AttackTimeLeft)
}

func TestRunAbortsOnNegativeTroops(t *testing.T) {
	o := Opening{{64, 100}}
	want := Result{Land: 12, Troops: -8, Success: false, Tick: 65, LayerIndex: 3, AttackTimeLeft: 6}
	assert.Equal(t, want, run(t, o, 80))
	assert.Equal(t, want, run(t, o, 505))

	rec := &Recorder{}
	_, err := NewSimulator(DefaultRules(), WithTrace(rec.Emit, 2)).Run(o, 505)
	require.NoError(t, err)
	require.NotEmpty(t, rec.Events)
	last := rec.Events[len(rec.Events)-1]
	assert.Equal(t, "Abort", last.Type)
	assert.Equal(t, 65, last.T)
}

func TestRunRejectsBadInput(t *testing.T) {
	sim := NewSimulator(DefaultRules())
	_, err := sim.Run(nil, 0)
	assert.ErrorIs(t, err, ErrBadHorizon)
	_, err = sim.Run(Opening{{90, 5}, {80, 5}}, 100)
	assert.ErrorIs(t, err, ErrUnsorted)
	_, err = sim.Run(Opening{{90, 150}}, 100)
	assert.ErrorIs(t, err, ErrBadAttack)
}

func TestStartAttack(t *testing.T) {
	r := DefaultRules()
	st := NewSimulator(r).newState(nil)
	st.StartAttack(50)
	assert.Equal(t, 512-256-6, st.Troops)
	assert.Equal(t, 256, st.LandAttack)
	assert.Equal(t, 7, st.AttackTimeLeft)
	assert.True(t, st.NewAttack)

	st.AttackTimeLeft = 3
	st.StartAttack(10)
	assert.Equal(t, 250-25-2, st.Troops)
	assert.Equal(t, 281, st.LandAttack)
	assert.Equal(t, 3, st.AttackTimeLeft, "joining an attack keeps its countdown")
}

func TestResolveLayerBranches(t *testing.T) {
	r := DefaultRules()
	sim := NewSimulator(r)

	t.Run("captured", func(t *testing.T) {
		st := sim.newState(nil)
		st.LandAttack, st.AttackTimeLeft, st.NewAttack = 36, 0, true
		st.resolveLayer()
		assert.Equal(t, 4, st.LayerIndex)
		assert.Equal(t, 24, st.Land)
		assert.Equal(t, 12, st.LandAttack)
		assert.Equal(t, 3, st.AttackTimeLeft)
		assert.False(t, st.NewAttack)
		assert.Equal(t, 512, st.Troops)
	})
	t.Run("fresh_shortfall", func(t *testing.T) {
		st := sim.newState(nil)
		st.LandAttack, st.AttackTimeLeft, st.NewAttack = 10, 0, true
		st.resolveLayer()
		assert.Equal(t, 512-26, st.Troops)
		assert.Equal(t, 4, st.LayerIndex)
		assert.Equal(t, 12, st.LandAttack)
		assert.Equal(t, 3, st.AttackTimeLeft)
		assert.False(t, st.NewAttack)
	})
	t.Run("abandoned", func(t *testing.T) {
		st := sim.newState(nil)
		st.LandAttack, st.AttackTimeLeft = 10, 0
		st.resolveLayer()
		assert.Equal(t, 522, st.Troops)
		assert.Equal(t, 3, st.LayerIndex)
		assert.Equal(t, 0, st.LandAttack)
		assert.Equal(t, -1, st.AttackTimeLeft)
	})
}

func TestRunIsDeterministic(t *testing.T) {
	rng := util.New(7)
	for i := 0; i < 25; i++ {
		o := randomOpening(rng, 6)
		maxTicks := util.Between(rng, 1, 600)
		assert.Equal(t, run(t, o, maxTicks), run(t, o, maxTicks))
	}
}

func TestLandNeverShrinks(t *testing.T) {
	rng := util.New(99)
	for i := 0; i < 20; i++ {
		o := randomOpening(rng, 8)
		rec := &Recorder{}
		_, err := NewSimulator(DefaultRules(), WithTrace(rec.Emit, 2)).Run(o, 600)
		require.NoError(t, err)
		land, layer := 0, 0
		for _, ev := range rec.Events {
			if ev.Type != "Tick" {
				continue
			}
			l, n := ev.Payload["land"].(int), ev.Payload["layer"].(int)
			assert.GreaterOrEqual(t, l, land, "opening %v tick %d", o, ev.T)
			assert.GreaterOrEqual(t, n, layer, "opening %v tick %d", o, ev.T)
			land, layer = l, n
		}
	}
}

func TestAbortFreezesResult(t *testing.T) {
	rng := util.New(3)
	for i := 0; i < 40; i++ {
		o := randomOpening(rng, 5)
		short := run(t, o, 300)
		if short.Success {
			continue
		}
		assert.Equal(t, short, run(t, o, 900), "opening %v", o)
	}
}

func TestTraceVerbosity(t *testing.T) {
	count := func(v int) map[string]int {
		rec := &Recorder{}
		_, err := NewSimulator(DefaultRules(), WithTrace(rec.Emit, v)).Run(standardBase, 200)
		require.NoError(t, err)
		out := map[string]int{}
		for _, ev := range rec.Events {
			out[ev.Type]++
		}
		return out
	}
	assert.Empty(t, count(0))

	v1 := count(1)
	assert.Equal(t, 20, v1["Income"])
	assert.Equal(t, 7, v1["AttackStart"])
	assert.Equal(t, 1, v1["Done"])
	assert.Zero(t, v1["Tick"])

	assert.Equal(t, 200, count(2)["Tick"])
}

func randomOpening(rng interface{ Intn(int) int }, maxLen int) Opening {
	var o Opening
	n := rng.Intn(maxLen + 1)
	for i := 0; i < n; i++ {
		o = append(o, Attack{Tick: 1 + rng.Intn(500), Percent: float64(rng.Intn(10001)) / 100})
	}
	return o.Sorted()
}

package gallery

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSink records orchestrator calls.
type fakeSink struct {
	started   []string
	stopped   []string
	gains     map[string]float64
	positions map[string]Vec3
	failIDs   map[string]bool
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		gains:     map[string]float64{},
		positions: map[string]Vec3{},
		failIDs:   map[string]bool{},
	}
}

func (s *fakeSink) Start(itemID, url string) error {
	if s.failIDs[itemID] {
		return errors.New("start refused")
	}
	s.started = append(s.started, itemID)
	return nil
}

func (s *fakeSink) SetGain(itemID string, gain float64) { s.gains[itemID] = gain }
func (s *fakeSink) SetPosition(itemID string, pos Vec3) { s.positions[itemID] = pos }
func (s *fakeSink) Stop(itemID string)                  { s.stopped = append(s.stopped, itemID) }

// stepUntil advances the orchestrator frame by frame until cond holds.
func stepUntil(o *AmbientOrchestrator, refresh func() []AmbientCandidate, cond func() bool) bool {
	for i := 0; i < 500; i++ {
		if cond() {
			return true
		}
		o.Step(frameDt, false, refresh)
	}
	return cond()
}

func ambientFixture() ([]MediaItem, []MediaItem) {
	visual := []MediaItem{
		{ID: "v1", Title: "Song", Musician: "X", Type: "image"},
		{ID: "v2", Title: "Harbor", Musician: "Y", Type: "image"},
		{ID: "v3", Title: "Song", Musician: "X", Type: "image"},
		{ID: "v4", Title: "Nameless", Type: "image"},
		{ID: "v5", Title: "Quiet", Musician: "Z", Type: "image"},
		{ID: "v6", Title: "Harbor", Musician: "Y", Type: "image"},
	}
	catalog := append([]MediaItem{
		{ID: "a1", Title: "Song", Musician: "X", Type: "audio", URL: "https://cdn.example/song.mp3"},
		{ID: "a2", Title: "Harbor", Musician: "Y", Type: "audio", URL: "https://cdn.example/harbor.mp3"},
		{ID: "a3", Title: "Quiet", Musician: "Z", Type: "audio", URL: "http://insecure.example/quiet.mp3"},
	}, visual...)
	return visual, catalog
}

func TestAmbientCandidatesPairingAndOrder(t *testing.T) {
	visual, catalog := ambientFixture()
	positions := map[string]Vec3{
		"v1": {0, 0, 5},   // nearest
		"v2": {0, 0, -10},
		"v3": {0, 0, -30},
		"v4": {0, 0, 0},
		"v5": {0, 0, -5},
		"v6": {0, 0, -50},
	}
	pos := func(id string) (Vec3, bool) {
		p, ok := positions[id]
		return p, ok
	}

	cands := AmbientCandidates(visual, catalog, pos, Vec3{0, 0, 22})
	require.NotEmpty(t, cands)
	assert.LessOrEqual(t, len(cands), AmbientMaxVoices)

	// Nearest first; v4 has no musician and v5's only match is insecure.
	var ids []string
	for _, c := range cands {
		ids = append(ids, c.ItemID)
	}
	assert.Equal(t, []string{"v1", "v2", "v3", "v6"}, ids)
	assert.Equal(t, "https://cdn.example/song.mp3", cands[0].URL)
}

func TestAmbientCandidatesSkipOffScene(t *testing.T) {
	visual, catalog := ambientFixture()
	pos := func(id string) (Vec3, bool) {
		if id == "v1" {
			return Vec3{0, 0, 5}, true
		}
		return SentinelPosition, true
	}
	cands := AmbientCandidates(visual, catalog, pos, Vec3{0, 0, 22})
	require.Len(t, cands, 1)
	assert.Equal(t, "v1", cands[0].ItemID)
}

func TestOrchestratorFadesInAndOut(t *testing.T) {
	sink := newFakeSink()
	o := NewAmbientOrchestrator(sink)

	cand := []AmbientCandidate{{ItemID: "v1", URL: "u1", Pos: Vec3{1, 0, 0}}}
	o.Step(frameDt, false, func() []AmbientCandidate { return cand })
	require.Equal(t, []string{"v1"}, sink.started)
	require.Contains(t, o.Voices(), "v1")
	assert.Equal(t, VoiceFadingIn, o.Voices()["v1"].Phase)

	// Gain ramps at the fade speed until it reaches the ambient volume.
	ok := stepUntil(o, func() []AmbientCandidate { return cand }, func() bool {
		return o.Voices()["v1"].Phase == VoicePlaying
	})
	require.True(t, ok, "voice never reached full volume")
	assert.Equal(t, AmbientVolume, sink.gains["v1"])

	// Candidate disappears: fade out, then stop.
	empty := func() []AmbientCandidate { return nil }
	ok = stepUntil(o, empty, func() bool {
		v := o.Voices()["v1"]
		return v != nil && v.Phase == VoiceFadingOut
	})
	require.True(t, ok, "voice never started fading out")

	ok = stepUntil(o, empty, func() bool { return len(o.Voices()) == 0 })
	require.True(t, ok, "voice never stopped")
	assert.Equal(t, []string{"v1"}, sink.stopped)
}

func TestOrchestratorSuppressionStopsImmediately(t *testing.T) {
	sink := newFakeSink()
	o := NewAmbientOrchestrator(sink)

	cand := []AmbientCandidate{
		{ItemID: "v1", URL: "u1"},
		{ItemID: "v2", URL: "u2"},
	}
	o.Step(frameDt, false, func() []AmbientCandidate { return cand })
	require.Len(t, o.Voices(), 2)

	o.Step(frameDt, true, func() []AmbientCandidate { return cand })
	assert.Empty(t, o.Voices())
	sort.Strings(sink.stopped)
	assert.Equal(t, []string{"v1", "v2"}, sink.stopped)

	// Suppression lifting re-pairs on the next step without waiting.
	o.Step(frameDt, false, func() []AmbientCandidate { return cand })
	assert.Len(t, o.Voices(), 2)
}

func TestOrchestratorURLChangeReplacesVoice(t *testing.T) {
	sink := newFakeSink()
	o := NewAmbientOrchestrator(sink)

	first := func() []AmbientCandidate {
		return []AmbientCandidate{{ItemID: "v1", URL: "u1"}}
	}
	o.Step(frameDt, false, first)
	require.Equal(t, VoiceFadingIn, o.Voices()["v1"].Phase)
	ok := stepUntil(o, first, func() bool { return o.Voices()["v1"].Phase == VoicePlaying })
	require.True(t, ok)

	replaced := func() []AmbientCandidate {
		return []AmbientCandidate{{ItemID: "v1", URL: "u2"}}
	}
	ok = stepUntil(o, replaced, func() bool { return o.Voices()["v1"].Phase == VoiceFadingOut })
	assert.True(t, ok, "url change never faded the old voice out")
}

func TestOrchestratorAbandonsFailedStart(t *testing.T) {
	sink := newFakeSink()
	sink.failIDs["v1"] = true
	o := NewAmbientOrchestrator(sink)

	o.Step(frameDt, false, func() []AmbientCandidate {
		return []AmbientCandidate{
			{ItemID: "v1", URL: "u1"},
			{ItemID: "v2", URL: "u2"},
		}
	})
	assert.NotContains(t, o.Voices(), "v1")
	assert.Contains(t, o.Voices(), "v2")
}

func TestPlayingItemIDs(t *testing.T) {
	sink := newFakeSink()
	o := NewAmbientOrchestrator(sink)
	o.Step(frameDt, false, func() []AmbientCandidate {
		return []AmbientCandidate{
			{ItemID: "b", URL: "u1"},
			{ItemID: "a", URL: "u2"},
		}
	})
	assert.Equal(t, []string{"a", "b"}, o.PlayingItemIDs())
}

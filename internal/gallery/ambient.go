package gallery

import "sort"

// VoicePhase is the fade state of one ambient voice.
type VoicePhase int

const (
	VoiceIdle VoicePhase = iota
	VoiceFadingIn
	VoicePlaying
	VoiceFadingOut
)

// AmbientVoice tracks one spatial voice bound to a visual item.
type AmbientVoice struct {
	ItemID string
	URL    string
	Phase  VoicePhase
	Gain   float64
}

// AmbientCandidate pairs a nearby visual item with its matching audio asset.
type AmbientCandidate struct {
	ItemID string
	URL    string
	Pos    Vec3
}

// VoiceSink is the playback boundary the orchestrator drives. Start may fail
// (bad url, decode error); the orchestrator then abandons that voice.
type VoiceSink interface {
	Start(itemID, url string) error
	SetGain(itemID string, gain float64)
	SetPosition(itemID string, pos Vec3)
	Stop(itemID string)
}

// AmbientCandidates ranks the on-scene visual items by camera distance and
// pairs each with an audio asset by the same musician naming the same work.
// At most AmbientMaxVoices pairs are returned, nearest first.
func AmbientCandidates(visual []MediaItem, catalog []MediaItem, pos func(id string) (Vec3, bool), camEye Vec3) []AmbientCandidate {
	type ranked struct {
		item MediaItem
		pos  Vec3
		dSq  float64
	}
	var near []ranked
	for _, it := range visual {
		p, ok := pos(it.ID)
		if !ok || p.Z <= SentinelZ+10 {
			continue
		}
		near = append(near, ranked{it, p, p.DistSqTo(camEye)})
	}
	sort.Slice(near, func(i, j int) bool { return near[i].dSq < near[j].dSq })

	var out []AmbientCandidate
	for _, r := range near {
		if len(out) >= AmbientMaxVoices {
			break
		}
		if r.item.Musician == "" {
			continue
		}
		for _, aud := range catalog {
			if !aud.IsAudio() || !aud.HasSecureURL() || aud.Musician == "" {
				continue
			}
			if aud.Musician == r.item.Musician && AreTitlesSimilar(aud.Title, r.item.Title) {
				out = append(out, AmbientCandidate{ItemID: r.item.ID, URL: aud.URL, Pos: r.pos})
				break
			}
		}
	}
	return out
}

// AmbientOrchestrator owns the ambient voice set: on a fixed interval it
// refreshes the candidate pairing, fading new voices in and departed voices
// out; focus or playlist activity suppresses everything immediately.
type AmbientOrchestrator struct {
	sink   VoiceSink
	voices map[string]*AmbientVoice
	since  float64
}

func NewAmbientOrchestrator(sink VoiceSink) *AmbientOrchestrator {
	return &AmbientOrchestrator{
		sink:   sink,
		voices: map[string]*AmbientVoice{},
		since:  AmbientCheckInterval,
	}
}

// Voices returns the live voice records keyed by visual item id. Callers must
// not mutate the map.
func (o *AmbientOrchestrator) Voices() map[string]*AmbientVoice { return o.voices }

// PlayingItemIDs lists the items whose voices are audible, for UI overlays.
func (o *AmbientOrchestrator) PlayingItemIDs() []string {
	var out []string
	for id, v := range o.voices {
		if v.Phase == VoicePlaying || v.Phase == VoiceFadingIn {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// StopAll silences and forgets every voice at once.
func (o *AmbientOrchestrator) StopAll() {
	for id := range o.voices {
		o.sink.Stop(id)
		delete(o.voices, id)
	}
}

// Step advances fades every frame and refreshes the candidate set when the
// interval elapses. suppressed stops all voices immediately and holds the
// refresh timer ready for when suppression lifts. refresh is only invoked
// when a check is due.
func (o *AmbientOrchestrator) Step(dt float64, suppressed bool, refresh func() []AmbientCandidate) {
	if suppressed {
		o.StopAll()
		o.since = AmbientCheckInterval
		return
	}

	o.since += dt
	if o.since >= AmbientCheckInterval {
		o.since = 0
		o.applyCandidates(refresh())
	}

	for id, v := range o.voices {
		switch v.Phase {
		case VoiceFadingIn:
			v.Gain += AmbientFadeSpeed * dt
			if v.Gain >= AmbientVolume {
				v.Gain = AmbientVolume
				v.Phase = VoicePlaying
			}
			o.sink.SetGain(id, v.Gain)
		case VoiceFadingOut:
			v.Gain -= AmbientFadeSpeed * dt
			if v.Gain <= 0 {
				o.sink.Stop(id)
				delete(o.voices, id)
				continue
			}
			o.sink.SetGain(id, v.Gain)
		}
	}
}

func (o *AmbientOrchestrator) applyCandidates(cands []AmbientCandidate) {
	want := make(map[string]AmbientCandidate, len(cands))
	for _, c := range cands {
		want[c.ItemID] = c
	}

	for id, v := range o.voices {
		c, ok := want[id]
		if !ok || c.URL != v.URL {
			v.Phase = VoiceFadingOut
			continue
		}
		o.sink.SetPosition(id, c.Pos)
		if v.Phase == VoiceFadingOut {
			v.Phase = VoiceFadingIn
		}
	}

	for id, c := range want {
		if _, ok := o.voices[id]; ok {
			continue
		}
		if err := o.sink.Start(id, c.URL); err != nil {
			continue // voice abandoned, candidate may retry next interval
		}
		o.sink.SetPosition(id, c.Pos)
		o.voices[id] = &AmbientVoice{ItemID: id, URL: c.URL, Phase: VoiceFadingIn}
	}
}

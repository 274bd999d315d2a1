package gallery

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/go-mp3"
	"github.com/hajimehoshi/oto/v2"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)
)

// AudioEngine is the playback half of the ambient orchestration: it fetches
// and decodes ambient assets, band-limits them to a murmur, and spatializes
// each voice against the listener with inverse-distance attenuation and
// equal-power panning. It implements VoiceSink.
//
// The frame loop drives it; fetching and decoding happen off-loop so a slow
// CDN never stalls a frame. A voice that fails to fetch or decode is logged
// and abandoned.
type AudioEngine struct {
	ctx    *oto.Context
	ready  chan struct{}
	client *http.Client
	log    *slog.Logger

	mu     sync.Mutex
	voices map[string]*voice

	listenerEye   Vec3
	listenerRight Vec3
}

func NewAudioEngine(log *slog.Logger) (*AudioEngine, error) {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		return nil, fmt.Errorf("audio context: %w", err)
	}
	return &AudioEngine{
		ctx:           ctx,
		ready:         ready,
		client:        &http.Client{Timeout: 30 * time.Second},
		log:           log,
		voices:        map[string]*voice{},
		listenerRight: Vec3{1, 0, 0},
	}, nil
}

type voice struct {
	url      string
	pos      Vec3
	fadeGain float64
	distGain float64
	player   oto.Player
	reader   *voiceReader
	stopped  bool
}

func (v *voice) volume() float64 { return clampF(v.fadeGain*v.distGain, 0, 1) }

// UpdateListener moves the listener to the camera pose and re-spatializes
// every live voice. Call once per frame.
func (e *AudioEngine) UpdateListener(eye, look Vec3) {
	forward := look.Sub(eye).Normalized()
	right := forward.Cross(Vec3{0, 1, 0}).Normalized()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listenerEye = eye
	e.listenerRight = right
	for _, v := range e.voices {
		e.spatializeLocked(v)
	}
}

// Start registers a voice and begins fetching its asset.
func (e *AudioEngine) Start(itemID, url string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.voices[itemID]; ok {
		return nil
	}
	v := &voice{url: url, distGain: 1}
	e.voices[itemID] = v
	go e.fetchAndPlay(itemID, v)
	return nil
}

// SetGain applies the orchestrator's fade gain.
func (e *AudioEngine) SetGain(itemID string, gain float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.voices[itemID]
	if !ok {
		return
	}
	v.fadeGain = gain
	if v.player != nil {
		v.player.SetVolume(v.volume())
	}
}

// SetPosition moves the voice in the scene.
func (e *AudioEngine) SetPosition(itemID string, pos Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.voices[itemID]
	if !ok {
		return
	}
	v.pos = pos
	e.spatializeLocked(v)
}

// Stop silences and forgets the voice immediately.
func (e *AudioEngine) Stop(itemID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.voices[itemID]
	if !ok {
		return
	}
	delete(e.voices, itemID)
	v.stopped = true
	if v.player != nil {
		v.player.Close()
		v.player = nil
	}
}

// Close stops every voice.
func (e *AudioEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, v := range e.voices {
		v.stopped = true
		if v.player != nil {
			v.player.Close()
		}
		delete(e.voices, id)
	}
}

func (e *AudioEngine) spatializeLocked(v *voice) {
	dist := v.pos.DistTo(e.listenerEye)
	v.distGain = AmbientRefDistance /
		(AmbientRefDistance + AmbientRolloff*math.Max(0, dist-AmbientRefDistance))
	if v.reader != nil {
		dir := v.pos.Sub(e.listenerEye)
		if l := dir.Length(); l > 0 {
			v.reader.setPan(clampF(dir.Scale(1/l).Dot(e.listenerRight), -1, 1))
		}
	}
	if v.player != nil {
		v.player.SetVolume(v.volume())
	}
}

func (e *AudioEngine) fetchAndPlay(itemID string, v *voice) {
	data, err := e.fetch(v.url)
	if err != nil {
		e.log.Warn("ambient fetch failed", "url", v.url, "error", err)
		e.Stop(itemID)
		return
	}
	reader, err := newVoiceReader(data)
	if err != nil {
		e.log.Warn("ambient decode failed", "url", v.url, "error", err)
		e.Stop(itemID)
		return
	}
	<-e.ready

	e.mu.Lock()
	defer e.mu.Unlock()
	if v.stopped || e.voices[itemID] != v {
		return
	}
	v.reader = reader
	v.player = e.ctx.NewPlayer(reader)
	e.spatializeLocked(v)
	v.player.Play()
}

func (e *AudioEngine) fetch(url string) ([]byte, error) {
	if strings.HasPrefix(url, "file://") {
		return os.ReadFile(strings.TrimPrefix(url, "file://"))
	}
	resp, err := e.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// voiceReader streams one looping ambient voice as stereo float32: mp3 frames
// are downmixed to mono, resampled to the context rate, band-limited by the
// highpass/lowpass pair and panned equal-power. The pan value is the only
// state shared with the frame loop, held as atomic bits.
type voiceReader struct {
	data []byte
	dec  *mp3.Decoder

	step   float64
	frac   float64
	s0, s1 float64
	primed bool

	hp, lp biquad
	pan    uint64
}

func newVoiceReader(data []byte) (*voiceReader, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &voiceReader{
		data: data,
		dec:  dec,
		step: float64(dec.SampleRate()) / SampleRate,
		hp:   newHighpass(AmbientHighpassHz, AmbientFilterQ),
		lp:   newLowpass(AmbientLowpassHz, AmbientFilterQ),
	}, nil
}

func (r *voiceReader) setPan(pan float64) {
	atomic.StoreUint64(&r.pan, math.Float64bits(pan))
}

// nextSource reads one mono source sample, rewinding the decoder at EOF so
// the voice loops.
func (r *voiceReader) nextSource() (float64, error) {
	var frame [4]byte
	_, err := io.ReadFull(r.dec, frame[:])
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		r.dec, err = mp3.NewDecoder(bytes.NewReader(r.data))
		if err != nil {
			return 0, err
		}
		if _, err = io.ReadFull(r.dec, frame[:]); err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, err
	}
	l := int16(uint16(frame[0]) | uint16(frame[1])<<8)
	rr := int16(uint16(frame[2]) | uint16(frame[3])<<8)
	return (float64(l) + float64(rr)) / 2 / 32768, nil
}

func (r *voiceReader) Read(p []byte) (int, error) {
	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	if !r.primed {
		s, err := r.nextSource()
		if err != nil {
			return 0, io.EOF
		}
		r.s0, r.s1 = s, s
		r.primed = true
	}
	pan := math.Float64frombits(atomic.LoadUint64(&r.pan))
	// Equal-power pan law.
	angle := (pan + 1) * math.Pi / 4
	gl, gr := math.Cos(angle), math.Sin(angle)
	for i := 0; i < frames; i++ {
		r.frac += r.step
		for r.frac >= 1 {
			r.frac--
			r.s0 = r.s1
			s, err := r.nextSource()
			if err != nil {
				return i * 8, io.EOF
			}
			r.s1 = s
		}
		s := r.s0 + (r.s1-r.s0)*r.frac
		s = r.lp.process(r.hp.process(s))
		putStereoF32LR(p, i, s*gl, s*gr)
	}
	return frames * 8, nil
}

// putStereoF32LR writes independent left/right samples in [-1,1] as float32
// LE at frame i.
func putStereoF32LR(buf []byte, i int, left, right float64) {
	lv := math.Float32bits(float32(left))
	rv := math.Float32bits(float32(right))
	buf[i*8] = byte(lv)
	buf[i*8+1] = byte(lv >> 8)
	buf[i*8+2] = byte(lv >> 16)
	buf[i*8+3] = byte(lv >> 24)
	buf[i*8+4] = byte(rv)
	buf[i*8+5] = byte(rv >> 8)
	buf[i*8+6] = byte(rv >> 16)
	buf[i*8+7] = byte(rv >> 24)
}

// biquad is a direct-form-1 second-order filter (RBJ cookbook forms).
type biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

func newLowpass(freq, q float64) biquad {
	w0 := 2 * math.Pi * freq / SampleRate
	alpha := math.Sin(w0) / (2 * q)
	cw := math.Cos(w0)
	a0 := 1 + alpha
	return biquad{
		b0: (1 - cw) / 2 / a0,
		b1: (1 - cw) / a0,
		b2: (1 - cw) / 2 / a0,
		a1: -2 * cw / a0,
		a2: (1 - alpha) / a0,
	}
}

func newHighpass(freq, q float64) biquad {
	w0 := 2 * math.Pi * freq / SampleRate
	alpha := math.Sin(w0) / (2 * q)
	cw := math.Cos(w0)
	a0 := 1 + alpha
	return biquad{
		b0: (1 + cw) / 2 / a0,
		b1: -(1 + cw) / a0,
		b2: (1 + cw) / 2 / a0,
		a1: -2 * cw / a0,
		a2: (1 - alpha) / a0,
	}
}

func (f *biquad) process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}

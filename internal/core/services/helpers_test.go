package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/trove/internal/core/domain"
	"github.com/custodia-labs/trove/internal/core/ports/driven"
)

// --- Test doubles shared by loader, resolver and importer tests ---

var errBadPayload = errors.New("bad payload")

// stubDecoder decodes payloads of the form "guid|kind|ref1,ref2".
// A payload starting with "!" fails to decode.
type stubDecoder struct {
	mu      sync.Mutex
	decoded []string
}

func (d *stubDecoder) Decode(r domain.Record) (*domain.Entity, error) {
	payload := string(r.Payload)
	if strings.HasPrefix(payload, "!") {
		return nil, errBadPayload
	}

	parts := strings.SplitN(payload, "|", 3)
	e := &domain.Entity{GUID: parts[0], Title: "Entity " + parts[0]}
	if len(parts) > 1 {
		e.Kind = parts[1]
	}
	if len(parts) > 2 && parts[2] != "" {
		for _, guid := range strings.Split(parts[2], ",") {
			e.Relations = append(e.Relations, domain.Relation{Name: "ref", Ref: domain.Ref{GUID: guid}})
		}
	}

	d.mu.Lock()
	d.decoded = append(d.decoded, e.GUID)
	d.mu.Unlock()
	return e, nil
}

func (d *stubDecoder) Decoded() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.decoded...)
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// slowDecoder advances the clock by cost after every `every` decodes,
// simulating the wall-clock cost of a sub-batch.
type slowDecoder struct {
	inner driven.RecordDecoder
	clock *fakeClock
	every int
	cost  time.Duration
	count int
}

func (d *slowDecoder) Decode(r domain.Record) (*domain.Entity, error) {
	e, err := d.inner.Decode(r)
	d.count++
	if d.count%d.every == 0 {
		d.clock.Advance(d.cost)
	}
	return e, err
}

// countingYielder counts yields and can fail.
type countingYielder struct {
	mu    sync.Mutex
	count int
	err   error
}

func (y *countingYielder) Yield(_ context.Context) error {
	y.mu.Lock()
	defer y.mu.Unlock()
	y.count++
	return y.err
}

func (y *countingYielder) Count() int {
	y.mu.Lock()
	defer y.mu.Unlock()
	return y.count
}

// recordingSurface records status lines.
type recordingSurface struct {
	mu       sync.Mutex
	statuses []string
	hidden   bool
}

func (s *recordingSurface) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, status)
}

func (s *recordingSurface) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hidden = true
}

func (s *recordingSurface) Statuses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.statuses...)
}

func (s *recordingSurface) Hidden() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hidden
}

// stubDisplay signals ready from a goroutine after Build, unless holdReady is set.
type stubDisplay struct {
	ready      chan struct{}
	buildErr   error
	holdReady  bool
	progressOn string

	mu         sync.Mutex
	built      *domain.Collection
	opts       driven.BuildOptions
	subscribed bool
	revealed   bool
	wg         sync.WaitGroup
}

func newStubDisplay() *stubDisplay {
	return &stubDisplay{ready: make(chan struct{})}
}

func (d *stubDisplay) Ready() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribed = true
	return d.ready
}

func (d *stubDisplay) Build(_ context.Context, c *domain.Collection, opts driven.BuildOptions) error {
	d.mu.Lock()
	subscribed := d.subscribed
	d.built = c
	d.opts = opts
	d.mu.Unlock()

	if !subscribed {
		return errors.New("build called before ready subscription")
	}
	if d.buildErr != nil {
		return d.buildErr
	}
	if d.progressOn != "" && opts.Progress != nil {
		opts.Progress(d.progressOn)
	}
	if !d.holdReady {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			close(d.ready)
		}()
	}
	return nil
}

func (d *stubDisplay) Reveal() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revealed = true
}

func (d *stubDisplay) Built() *domain.Collection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.built
}

func (d *stubDisplay) Revealed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.revealed
}

// recordingTelemetry records event names in order.
type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
	count  int
}

func (t *recordingTelemetry) add(e string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, e)
}

func (t *recordingTelemetry) StartFirstContent() { t.add("first_content.start") }
func (t *recordingTelemetry) EndFirstContent()   { t.add("first_content.end") }

func (t *recordingTelemetry) RecordCount(_ context.Context, n int) {
	t.mu.Lock()
	t.count = n
	t.mu.Unlock()
	t.add("record_count")
}

func (t *recordingTelemetry) LoadPhase(context.Context, time.Duration, int) { t.add("load") }

func (t *recordingTelemetry) StartResolve(context.Context) func() {
	t.add("resolve.start")
	return func() { t.add("resolve.end") }
}

func (t *recordingTelemetry) Events() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.events...)
}

// records builds records from payload strings.
func records(payloads ...string) []domain.Record {
	out := make([]domain.Record, len(payloads))
	for i, p := range payloads {
		out[i] = domain.Record{Origin: "test", Payload: []byte(p)}
	}
	return out
}

// numberedRecords builds n records with GUIDs r0..r(n-1).
func numberedRecords(n int) []domain.Record {
	payloads := make([]string, n)
	for i := range payloads {
		payloads[i] = "r" + itoa(i) + "|item|"
	}
	return records(payloads...)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b []byte
	for i > 0 {
		b = append([]byte{byte('0' + i%10)}, b...)
		i /= 10
	}
	return string(b)
}

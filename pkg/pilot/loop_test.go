package pilot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/droneworks/tellopilot/pkg/control"
	"github.com/droneworks/tellopilot/pkg/flight"
	"github.com/droneworks/tellopilot/pkg/video"
)

// mockInput returns fixed axes and a scripted button press on one tick.
type mockInput struct {
	mu       sync.Mutex
	axes     control.Axes
	buttons  control.Buttons
	oneShot  bool
	consumed bool
}

func (m *mockInput) Axes() control.Axes {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.axes
}

func (m *mockInput) Buttons() control.Buttons {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.oneShot && m.consumed {
		return control.Buttons{}
	}
	m.consumed = true
	return m.buttons
}

// mockDisplay reports a quit key after a given number of polls.
type mockDisplay struct {
	mu        sync.Mutex
	polls     int
	quitAfter int // quit key on this poll number; 0 means never
	shown     int
	closed    int
}

func (m *mockDisplay) Show(frame []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shown++
	return nil
}

func (m *mockDisplay) Poll() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls++
	if m.quitAfter > 0 && m.polls >= m.quitAfter {
		return video.KeyQuit
	}
	return video.KeyNone
}

func (m *mockDisplay) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

type mockFrames struct{ frame []byte }

func (m *mockFrames) Frame() []byte { return m.frame }

type mockRecorder struct {
	mu    sync.Mutex
	saved [][]byte
}

func (m *mockRecorder) Save(frame []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, frame)
	return "snap.jpg", nil
}

func mustMapper(t *testing.T) *control.Mapper {
	t.Helper()
	m, err := control.NewMapper(50)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func testOptions(t *testing.T, drone *flight.Mock, display *mockDisplay, input *mockInput) Options {
	t.Helper()
	return Options{
		Drone:    drone,
		Input:    input,
		Frames:   &mockFrames{frame: []byte("jpeg")},
		Display:  display,
		Recorder: &mockRecorder{},
		Mapper:   mustMapper(t),
		Tick:     time.Millisecond,
	}
}

func countLands(commands []string) (lands int, afterLand int) {
	seen := false
	for _, c := range commands {
		if c == "land" {
			lands++
			seen = true
			continue
		}
		if seen {
			afterLand++
		}
	}
	return lands, afterLand
}

func TestNew_RequiresAllCollaborators(t *testing.T) {
	opts := testOptions(t, flight.NewMock(), &mockDisplay{}, &mockInput{})

	broken := []func(*Options){
		func(o *Options) { o.Drone = nil },
		func(o *Options) { o.Input = nil },
		func(o *Options) { o.Frames = nil },
		func(o *Options) { o.Display = nil },
		func(o *Options) { o.Recorder = nil },
		func(o *Options) { o.Mapper = nil },
	}
	for i, mutate := range broken {
		o := opts
		mutate(&o)
		if _, err := New(o); err == nil {
			t.Errorf("case %d: expected construction error", i)
		}
	}

	if _, err := New(opts); err != nil {
		t.Errorf("valid options rejected: %v", err)
	}
}

func TestRun_QuitKeyLandsOnceAndStops(t *testing.T) {
	drone := flight.NewMock()
	display := &mockDisplay{quitAfter: 3}
	loop, err := New(testOptions(t, drone, display, &mockInput{}))
	if err != nil {
		t.Fatal(err)
	}

	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	lands, after := countLands(drone.Commands())
	if lands != 1 {
		t.Errorf("land commands = %d, want exactly 1", lands)
	}
	if after != 0 {
		t.Errorf("%d control commands after land, want 0", after)
	}
	if display.closed != 1 {
		t.Errorf("display closed %d times, want 1", display.closed)
	}
}

func TestRun_ContextCancelLands(t *testing.T) {
	drone := flight.NewMock()
	loop, err := New(testOptions(t, drone, &mockDisplay{}, &mockInput{}))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := loop.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	lands, after := countLands(drone.Commands())
	if lands != 1 || after != 0 {
		t.Errorf("commands = %v, want a single trailing land", drone.Commands())
	}
}

func TestRun_OneVectorPerTick(t *testing.T) {
	drone := flight.NewMock()
	display := &mockDisplay{quitAfter: 5}
	input := &mockInput{axes: control.Axes{LeftRight: 0.5, ForwardBack: -1.0, Yaw: 1.0}}
	loop, err := New(testOptions(t, drone, display, input))
	if err != nil {
		t.Fatal(err)
	}

	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	vectors := drone.Vectors()
	if len(vectors) != 5 {
		t.Fatalf("vector commands = %d, want one per tick (5)", len(vectors))
	}
	want := control.Vector{LeftRight: 25, ForwardBack: 50, UpDown: 0, Yaw: 50}
	for i, v := range vectors {
		if v != want {
			t.Errorf("tick %d vector = %+v, want %+v", i, v, want)
		}
	}
}

func TestRun_TakeoffBeatsLandOnSameTick(t *testing.T) {
	drone := flight.NewMock()
	display := &mockDisplay{quitAfter: 2}
	input := &mockInput{buttons: control.Buttons{Takeoff: true, Land: true}, oneShot: true}
	loop, err := New(testOptions(t, drone, display, input))
	if err != nil {
		t.Fatal(err)
	}

	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	commands := drone.Commands()
	if commands[0] != "takeoff" {
		t.Errorf("first command = %q, want takeoff", commands[0])
	}
	// The only land is the quit landing at the very end.
	lands, after := countLands(commands)
	if lands != 1 || after != 0 {
		t.Errorf("commands = %v, want single trailing land", commands)
	}
}

func TestRun_SnapshotSavesCurrentFrame(t *testing.T) {
	drone := flight.NewMock()
	display := &mockDisplay{quitAfter: 2}
	input := &mockInput{buttons: control.Buttons{Snapshot: true}, oneShot: true}
	recorder := &mockRecorder{}

	opts := testOptions(t, drone, display, input)
	opts.Recorder = recorder
	loop, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}

	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if len(recorder.saved) != 1 || string(recorder.saved[0]) != "jpeg" {
		t.Errorf("recorder saved %v, want the current frame once", recorder.saved)
	}
}

func TestRun_OnFrameHookSeesRenderedFrames(t *testing.T) {
	drone := flight.NewMock()
	display := &mockDisplay{quitAfter: 3}

	var mu sync.Mutex
	var hooked int
	opts := testOptions(t, drone, display, &mockInput{})
	opts.OnFrame = func(frame []byte) {
		mu.Lock()
		hooked++
		mu.Unlock()
	}
	loop, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}

	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if hooked != display.shown {
		t.Errorf("hook saw %d frames, display showed %d", hooked, display.shown)
	}
	if hooked == 0 {
		t.Error("hook never fired")
	}
}

package triangle

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

// fakeBackend stands in for the driver-facing half of the frame
// protocol. It hands out images round-robin the way a FIFO presentation
// engine would, and fails the test whenever the scheduler breaks the
// protocol: resetting a fence that is not signaled, submitting over a
// slot whose previous frame has not been waited on, or touching an
// image another slot still renders to.
type fakeBackend struct {
	t *testing.T

	imageCount int
	nextImage  int

	// fenceSignaled and outstandingImage are per slot, imageBusy per
	// image. Fences start signaled, the way FrameSync creates them.
	fenceSignaled    []bool
	outstandingImage []int
	imageBusy        []bool

	ops []string

	waits    int
	resets   int
	acquires int
	submits  int
	presents int

	failWait    error
	failSubmit  error
	failPresent error
}

func newFakeBackend(t *testing.T, slots, imageCount int) *fakeBackend {
	backend := &fakeBackend{
		t:                t,
		imageCount:       imageCount,
		fenceSignaled:    make([]bool, slots),
		outstandingImage: make([]int, slots),
		imageBusy:        make([]bool, imageCount),
	}
	for slot := range backend.fenceSignaled {
		backend.fenceSignaled[slot] = true
		backend.outstandingImage[slot] = -1
	}
	return backend
}

func (b *fakeBackend) WaitFence(slot int) error {
	b.waits++
	b.ops = append(b.ops, fmt.Sprintf("wait %d", slot))
	if b.failWait != nil {
		return b.failWait
	}

	// Waiting retires whatever the slot still had in flight.
	if image := b.outstandingImage[slot]; image >= 0 {
		b.imageBusy[image] = false
		b.outstandingImage[slot] = -1
	}
	b.fenceSignaled[slot] = true
	return nil
}

func (b *fakeBackend) ResetFence(slot int) error {
	b.resets++
	b.ops = append(b.ops, fmt.Sprintf("reset %d", slot))
	if !b.fenceSignaled[slot] {
		b.t.Errorf("slot %d fence reset while unsignaled", slot)
	}
	b.fenceSignaled[slot] = false
	return nil
}

func (b *fakeBackend) AcquireImage(slot int) (int, error) {
	b.acquires++
	b.ops = append(b.ops, fmt.Sprintf("acquire %d", slot))

	image := b.nextImage
	b.nextImage = (b.nextImage + 1) % b.imageCount
	if b.imageBusy[image] {
		b.t.Errorf("image %d handed out while a submitted frame still renders to it", image)
	}
	return image, nil
}

func (b *fakeBackend) SubmitCommands(slot, imageIndex int) error {
	b.submits++
	b.ops = append(b.ops, fmt.Sprintf("submit %d:%d", slot, imageIndex))
	if b.failSubmit != nil {
		return b.failSubmit
	}

	if b.fenceSignaled[slot] {
		b.t.Errorf("slot %d submitted with its fence still signaled", slot)
	}
	if b.outstandingImage[slot] >= 0 {
		b.t.Errorf("slot %d submitted while its previous frame is still in flight", slot)
	}
	if b.imageBusy[imageIndex] {
		b.t.Errorf("image %d submitted while another slot still owns it", imageIndex)
	}
	b.outstandingImage[slot] = imageIndex
	b.imageBusy[imageIndex] = true
	return nil
}

func (b *fakeBackend) PresentImage(slot, imageIndex int) error {
	b.presents++
	b.ops = append(b.ops, fmt.Sprintf("present %d:%d", slot, imageIndex))
	if b.failPresent != nil {
		return b.failPresent
	}

	if b.outstandingImage[slot] != imageIndex {
		b.t.Errorf("slot %d presented image %d but submitted image %d", slot, imageIndex, b.outstandingImage[slot])
	}
	return nil
}

func TestNewFrameSchedulerValidatesSlotCount(t *testing.T) {
	backend := newFakeBackend(t, 2, 3)

	_, err := NewFrameScheduler(backend, 0, 3)
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("zero frames in flight: got %v, want a configuration error", err)
	}

	_, err = NewFrameScheduler(backend, 4, 3)
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("more slots than images: got %v, want a configuration error", err)
	}

	scheduler, err := NewFrameScheduler(backend, 3, 3)
	if err != nil {
		t.Fatalf("three slots over three images: %v", err)
	}
	if scheduler.FramesInFlight() != 3 || scheduler.ImageCount() != 3 {
		t.Errorf("scheduler reports %d slots over %d images, want 3 over 3", scheduler.FramesInFlight(), scheduler.ImageCount())
	}
}

func TestDrawFrameRunsProtocolInOrder(t *testing.T) {
	backend := newFakeBackend(t, 2, 3)
	scheduler, err := NewFrameScheduler(backend, 2, 3)
	if err != nil {
		t.Fatal(err)
	}

	err = scheduler.DrawFrame()
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"wait 0", "reset 0", "acquire 0", "submit 0:0", "present 0:0"}
	if strings.Join(backend.ops, ", ") != strings.Join(want, ", ") {
		t.Errorf("first frame ran %v, want %v", backend.ops, want)
	}
	if scheduler.CurrentFrame() != 1 {
		t.Errorf("cursor is %d after one frame, want 1", scheduler.CurrentFrame())
	}
}

func TestDrawFrameAdvancesCursorModuloSlots(t *testing.T) {
	backend := newFakeBackend(t, 3, 4)
	scheduler, err := NewFrameScheduler(backend, 3, 4)
	if err != nil {
		t.Fatal(err)
	}

	for frame := 0; frame < 10; frame++ {
		if scheduler.CurrentFrame() != frame%3 {
			t.Fatalf("frame %d: cursor is %d, want %d", frame, scheduler.CurrentFrame(), frame%3)
		}
		if err := scheduler.DrawFrame(); err != nil {
			t.Fatalf("frame %d: %v", frame, err)
		}
	}
}

func TestDrawFrameRecyclesSlotsSafely(t *testing.T) {
	// Two slots cycling over three images for long enough that every
	// slot and every image is reused several times. The backend fails
	// the test on any reuse that skips the fence wait.
	backend := newFakeBackend(t, 2, 3)
	scheduler, err := NewFrameScheduler(backend, 2, 3)
	if err != nil {
		t.Fatal(err)
	}

	const frames = 12
	for frame := 0; frame < frames; frame++ {
		if err := scheduler.DrawFrame(); err != nil {
			t.Fatalf("frame %d: %v", frame, err)
		}
	}

	if backend.waits != frames || backend.resets != frames || backend.acquires != frames ||
		backend.submits != frames || backend.presents != frames {
		t.Errorf("ran %d/%d/%d/%d/%d wait/reset/acquire/submit/present calls, want %d of each",
			backend.waits, backend.resets, backend.acquires, backend.submits, backend.presents, frames)
	}
}

func TestDrawFrameSingleSlot(t *testing.T) {
	backend := newFakeBackend(t, 1, 2)
	scheduler, err := NewFrameScheduler(backend, 1, 2)
	if err != nil {
		t.Fatal(err)
	}

	for frame := 0; frame < 5; frame++ {
		if err := scheduler.DrawFrame(); err != nil {
			t.Fatalf("frame %d: %v", frame, err)
		}
		if scheduler.CurrentFrame() != 0 {
			t.Fatalf("frame %d: cursor moved to %d with a single slot", frame, scheduler.CurrentFrame())
		}
	}
}

func TestDrawFrameSubmitFailure(t *testing.T) {
	backend := newFakeBackend(t, 2, 3)
	scheduler, err := NewFrameScheduler(backend, 2, 3)
	if err != nil {
		t.Fatal(err)
	}

	backend.failSubmit = errors.New("device lost")

	err = scheduler.DrawFrame()
	if !errors.Is(err, ErrSubmission) {
		t.Errorf("got %v, want a submission error", err)
	}
	if errors.Is(err, ErrPresentation) {
		t.Errorf("submission failure also marked as a presentation error: %v", err)
	}
	if backend.presents != 0 {
		t.Errorf("present ran %d times after a failed submit, want 0", backend.presents)
	}
	if scheduler.CurrentFrame() != 0 {
		t.Errorf("cursor advanced to %d past a failed frame, want 0", scheduler.CurrentFrame())
	}
}

func TestDrawFramePresentFailure(t *testing.T) {
	backend := newFakeBackend(t, 2, 3)
	scheduler, err := NewFrameScheduler(backend, 2, 3)
	if err != nil {
		t.Fatal(err)
	}

	backend.failPresent = errors.New("surface lost")

	err = scheduler.DrawFrame()
	if !errors.Is(err, ErrPresentation) {
		t.Errorf("got %v, want a presentation error", err)
	}
	if errors.Is(err, ErrSubmission) {
		t.Errorf("presentation failure also marked as a submission error: %v", err)
	}
	if scheduler.CurrentFrame() != 0 {
		t.Errorf("cursor advanced to %d past a failed frame, want 0", scheduler.CurrentFrame())
	}
}

func TestDrawFrameWaitFailure(t *testing.T) {
	backend := newFakeBackend(t, 2, 3)
	scheduler, err := NewFrameScheduler(backend, 2, 3)
	if err != nil {
		t.Fatal(err)
	}

	backend.failWait = errors.New("device lost")

	err = scheduler.DrawFrame()
	if err == nil {
		t.Fatal("wait failure did not surface")
	}
	if errors.Is(err, ErrSubmission) || errors.Is(err, ErrPresentation) {
		t.Errorf("wait failure carries a submit or present mark: %v", err)
	}
	if backend.resets != 0 || backend.acquires != 0 {
		t.Errorf("protocol continued past a failed wait: %d resets, %d acquires", backend.resets, backend.acquires)
	}
}

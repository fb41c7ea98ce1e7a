package triangle

import (
	"github.com/cockroachdb/errors"
)

// FrameBackend is the slice of driver behavior the frame protocol runs
// against, addressed by frame-slot index. FrameSync is the real
// implementation; tests substitute their own.
type FrameBackend interface {
	// WaitFence blocks until the slot's in-flight fence signals.
	WaitFence(slot int) error

	// ResetFence returns the slot's in-flight fence to unsignaled.
	ResetFence(slot int) error

	// AcquireImage asks the presentation engine for the next image and
	// arranges for the slot's image-available semaphore to signal once
	// that image is writable. It returns the image index without
	// blocking on the GPU.
	AcquireImage(slot int) (int, error)

	// SubmitCommands submits the pre-recorded command buffer for
	// imageIndex to the graphics queue, waiting on the slot's
	// image-available semaphore at the color-attachment-output stage and
	// signaling the slot's render-finished semaphore and in-flight fence
	// on completion.
	SubmitCommands(slot, imageIndex int) error

	// PresentImage queues imageIndex for presentation, gated on the
	// slot's render-finished semaphore.
	PresentImage(slot, imageIndex int) error
}

// FrameScheduler drives the per-frame synchronization protocol over a
// fixed arena of frame slots. Each slot's primitives are reused only
// after the fence wait at the top of DrawFrame retires the slot's
// previous submission.
type FrameScheduler struct {
	backend FrameBackend

	framesInFlight int
	imageCount     int
	currentFrame   int
}

// NewFrameScheduler wires the protocol over backend with framesInFlight
// slots against imageCount swapchain images. framesInFlight must be at
// least 1 and no greater than imageCount: with more slots than images, a
// slot could be recycled while the presentation engine still holds the
// image its previous submission rendered to.
func NewFrameScheduler(backend FrameBackend, framesInFlight, imageCount int) (*FrameScheduler, error) {
	if framesInFlight < 1 {
		return nil, errors.Mark(errors.Newf("frames in flight must be at least 1, got %d", framesInFlight), ErrConfiguration)
	}
	if framesInFlight > imageCount {
		return nil, errors.Mark(errors.Newf("%d frames in flight cannot be serviced by %d swapchain images", framesInFlight, imageCount), ErrConfiguration)
	}

	return &FrameScheduler{
		backend:        backend,
		framesInFlight: framesInFlight,
		imageCount:     imageCount,
	}, nil
}

// DrawFrame runs one iteration of the protocol: throttle on the current
// slot's fence, acquire an image, submit the command buffer recorded for
// the acquired image, queue it for presentation, and advance the frame
// cursor. The cursor advances only after a fully successful iteration;
// every failure is fatal to the caller.
func (s *FrameScheduler) DrawFrame() error {
	slot := s.currentFrame

	err := s.backend.WaitFence(slot)
	if err != nil {
		return errors.Wrapf(err, "frame %d: wait for in-flight fence", slot)
	}

	err = s.backend.ResetFence(slot)
	if err != nil {
		return errors.Wrapf(err, "frame %d: reset in-flight fence", slot)
	}

	imageIndex, err := s.backend.AcquireImage(slot)
	if err != nil {
		return errors.Wrapf(err, "frame %d: acquire swapchain image", slot)
	}

	err = s.backend.SubmitCommands(slot, imageIndex)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "frame %d: submit commands for image %d", slot, imageIndex), ErrSubmission)
	}

	err = s.backend.PresentImage(slot, imageIndex)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "frame %d: present image %d", slot, imageIndex), ErrPresentation)
	}

	s.currentFrame = (s.currentFrame + 1) % s.framesInFlight
	return nil
}

// CurrentFrame reports the slot the next DrawFrame call will use.
func (s *FrameScheduler) CurrentFrame() int {
	return s.currentFrame
}

// FramesInFlight reports the size of the slot arena.
func (s *FrameScheduler) FramesInFlight() int {
	return s.framesInFlight
}

// ImageCount reports the swapchain image count the scheduler was built
// against.
func (s *FrameScheduler) ImageCount() int {
	return s.imageCount
}

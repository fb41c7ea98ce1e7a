package triangle

import "github.com/cockroachdb/errors"

// Failure categories for the bring-up sequence and the frame loop. Call
// sites attach them with errors.Mark, keeping the wrapped driver detail
// while letting callers branch with errors.Is.
var (
	// ErrConfiguration marks a required extension or layer that is not
	// available, or frame settings outside their allowed bounds.
	ErrConfiguration = errors.New("configuration not supported")

	// ErrNoSuitableDevice marks the absence of any physical device that
	// passes selection.
	ErrNoSuitableDevice = errors.New("no suitable GPU")

	// ErrResourceCreation marks a create call the driver rejected.
	ErrResourceCreation = errors.New("resource creation failed")

	// ErrSubmission marks a failed queue submission in the frame loop.
	ErrSubmission = errors.New("queue submission failed")

	// ErrPresentation marks a failed presentation request in the frame
	// loop.
	ErrPresentation = errors.New("presentation failed")
)

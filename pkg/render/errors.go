package render

import (
	gserrors "github.com/matzehuels/graphscope/pkg/errors"
)

// Sentinel errors. Compare with errors.Is.
var (
	// ErrUnsupported is returned when the backend capability probe fails.
	ErrUnsupported = gserrors.New(gserrors.ErrCodeUnsupported, "rendering backend unsupported")

	// ErrContainerNotReady is returned when the container never became ready
	// within the retry policy.
	ErrContainerNotReady = gserrors.New(gserrors.ErrCodeContainerNotReady, "container not ready")

	// ErrNotActive is returned by Draw when no context is held.
	ErrNotActive = gserrors.New(gserrors.ErrCodeInternal, "render session not active")
)

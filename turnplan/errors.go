package turnplan

import "github.com/pkg/errors"

// NewNoDestinationError is returned when no next guidance line exists to turn
// onto, such as at a field edge past the last pass.
func NewNoDestinationError() error {
	return errors.New("no destination line available for turn")
}

// NewInvalidTrackError is returned when the current track cannot seed a turn,
// such as a curve below the minimum point count.
func NewInvalidTrackError() error {
	return errors.New("current track is not valid for turn planning")
}

// NewPathGenerationError is returned when no feasible turn geometry exists
// for the requested style and kinematics.
func NewPathGenerationError() error {
	return errors.New("unable to generate turn path geometry")
}

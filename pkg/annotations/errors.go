package annotations

import "errors"

var (
	// ErrDuplicateLabel is returned when a label already exists
	ErrDuplicateLabel = errors.New("label already exists")
	// ErrDuplicateColor is returned when a color is already in use
	ErrDuplicateColor = errors.New("color already in use")
	// ErrDuplicateCatID is returned when a category id is already in use
	ErrDuplicateCatID = errors.New("category id already in use")
	// ErrLastCategory is returned when removing the only category
	ErrLastCategory = errors.New("cannot remove the last category")
	// ErrCatIdxOutOfRange is returned for category indices without a label
	ErrCatIdxOutOfRange = errors.New("category index out of range")
	// ErrIndexOutOfRange is returned for annotation indices that do not exist
	ErrIndexOutOfRange = errors.New("annotation index out of range")
	// ErrLengthMismatch is returned when parallel lists differ in length
	ErrLengthMismatch = errors.New("length mismatch")
)

package pagination

import "errors"

// ErrMeasurerNotAttached is returned by PageComputer.Compute / ComputeFrom
// when no Measurer has been attached via SetMeasurer.
var ErrMeasurerNotAttached = errors.New("pagination: measurer not attached")

// ErrConfigurationInvalid is returned when a PaginationConfig's derived
// PageDimensions would have a non-positive content width or height.
var ErrConfigurationInvalid = errors.New("pagination: configuration produces non-positive content area")

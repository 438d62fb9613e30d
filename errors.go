package colorize

import (
	"fmt"

	"github.com/pkg/errors"
)

// FailureMessage is shown to the user when an asset cannot be loaded.
const FailureMessage = "Failed to load image. Please try again."

// ErrAssetLoad is matched by every AssetLoadError.
var ErrAssetLoad = errors.New("asset load failure")

// AssetLoadError reports that the image of an asset could not be read or decoded.
type AssetLoadError struct {
	Asset Asset
	Err   error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("could not load %s: %v", e.Asset.Name, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrAssetLoad) true for any AssetLoadError.
func (e *AssetLoadError) Is(target error) bool {
	return target == ErrAssetLoad
}

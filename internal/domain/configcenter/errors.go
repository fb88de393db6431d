package configcenter

import (
	"fmt"

	apperrors "github.com/nuvia/nutrition-advisor/pkg/errors"
)

// Error codes surfaced by the config center.
const (
	CodeNotFound          = "config_not_found"
	CodeInvalidTransition = "invalid_transition"
	CodeNoPreviousVersion = "no_previous_version"
	CodeInvalidInput      = "invalid_input"
)

func notFoundError(versionID string) error {
	return apperrors.Wrap(CodeNotFound, fmt.Sprintf("config version %s not found", versionID), nil)
}

func invalidTransitionError(from, to Status) error {
	return apperrors.Wrap(CodeInvalidTransition, fmt.Sprintf("invalid state transition from %s to %s", from, to), nil)
}

func noPreviousVersionError(configType ConfigType) error {
	return apperrors.Wrap(CodeNoPreviousVersion, fmt.Sprintf("no previous active version found for %s", configType), nil)
}

package scheduling

import "github.com/glennajones/gummy-bear/pkg/serrors"

var (
	ErrEmptyBacklog  = serrors.NewError("LAYUP_EMPTY_BACKLOG", "no orders to schedule", "")
	ErrEmptyHorizon  = serrors.NewError("LAYUP_EMPTY_HORIZON", "scheduling horizon has no work days", "")
	ErrNoCatalog     = serrors.NewError("LAYUP_NO_CATALOG", "resource catalog is missing", "")
	ErrInvalidPolicy = serrors.NewError("LAYUP_INVALID_POLICY", "invalid scheduling policy", "")
)

package mold

import "github.com/glennajones/gummy-bear/pkg/serrors"

var ErrNotFound = serrors.NewError("LAYUP_MOLD_NOT_FOUND", "mold not found", "")

package schedule

import "github.com/glennajones/gummy-bear/pkg/serrors"

var ErrOrderNotQueued = serrors.NewError("LAYUP_ORDER_NOT_QUEUED", "order is not in the layup queue", "")

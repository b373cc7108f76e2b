package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/mold"
	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/schedule"
	"github.com/glennajones/gummy-bear/modules/layup/scheduling"
	"github.com/glennajones/gummy-bear/modules/layup/services"
	"github.com/glennajones/gummy-bear/pkg/constants"
)

var errorStatuses = map[string]int{
	scheduling.ErrEmptyBacklog.Code:  http.StatusUnprocessableEntity,
	scheduling.ErrEmptyHorizon.Code:  http.StatusUnprocessableEntity,
	scheduling.ErrNoCatalog.Code:     http.StatusUnprocessableEntity,
	scheduling.ErrInvalidPolicy.Code: http.StatusUnprocessableEntity,
	services.ErrRunAbandoned.Code:    http.StatusGatewayTimeout,
	services.ErrNotWorkDay.Code:      http.StatusUnprocessableEntity,
	services.ErrInvalidInput.Code:    http.StatusBadRequest,
	services.ErrInvalidMold.Code:     http.StatusUnprocessableEntity,
	mold.ErrNotFound.Code:            http.StatusNotFound,
	schedule.ErrOrderNotQueued.Code:  http.StatusNotFound,
}

// queryDate reads an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, key string) (time.Time, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(constants.DateLayout, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

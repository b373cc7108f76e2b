package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/glennajones/gummy-bear/modules/layup/services"
	"github.com/glennajones/gummy-bear/pkg/application"
	"github.com/glennajones/gummy-bear/pkg/httpapi"
)

type LOPController struct {
	schedules *services.ScheduleService
	basePath  string
}

func NewLOPController(app application.Application) application.Controller {
	return &LOPController{
		schedules: app.Service(services.ScheduleService{}).(*services.ScheduleService),
		basePath:  "/layup/lop",
	}
}

func (c *LOPController) Key() string {
	return c.basePath
}

func (c *LOPController) Register(r *mux.Router) {
	r.HandleFunc(c.basePath, c.Report).Methods(http.MethodGet)
}

// Report returns the LOP adjustment state of every queued order as of
// ?date, or today.
func (c *LOPController) Report(w http.ResponseWriter, r *http.Request) {
	date, _, err := queryDate(r, "date")
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "LAYUP_INVALID_DATE", "date must be YYYY-MM-DD", nil)
		return
	}
	report, err := c.schedules.LOPReport(r.Context(), date)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err, errorStatuses)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, report)
}

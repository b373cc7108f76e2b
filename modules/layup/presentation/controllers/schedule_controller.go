package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/schedule"
	"github.com/glennajones/gummy-bear/modules/layup/presentation/dtos"
	"github.com/glennajones/gummy-bear/modules/layup/services"
	"github.com/glennajones/gummy-bear/pkg/application"
	"github.com/glennajones/gummy-bear/pkg/constants"
	"github.com/glennajones/gummy-bear/pkg/httpapi"
)

// defaultListWeeks bounds GET /layup/schedule when ?to is omitted.
const defaultListWeeks = 8

type ScheduleController struct {
	schedules *services.ScheduleService
	basePath  string
}

func NewScheduleController(app application.Application) application.Controller {
	return &ScheduleController{
		schedules: app.Service(services.ScheduleService{}).(*services.ScheduleService),
		basePath:  "/layup/schedule",
	}
}

func (c *ScheduleController) Key() string {
	return c.basePath
}

func (c *ScheduleController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/generate", c.Generate).Methods(http.MethodPost)
	router.HandleFunc("/override", c.Override).Methods(http.MethodPost)
}

func (c *ScheduleController) Generate(w http.ResponseWriter, r *http.Request) {
	var dto dtos.GenerateScheduleDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "LAYUP_INVALID_BODY", err.Error(), nil)
		return
	}
	if err := constants.Validate.Struct(dto); err != nil {
		_ = httpapi.WriteValidationError(w, err)
		return
	}
	plan, err := c.schedules.Generate(r.Context(), services.GenerateOptions{
		Start: dto.StartDate(),
		Apply: dto.Apply,
	})
	if err != nil {
		_ = httpapi.WriteServiceError(w, err, errorStatuses)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, plan)
}

// List returns stored assignments dated within ?from..?to. from defaults to
// today and to to eight weeks after from.
func (c *ScheduleController) List(w http.ResponseWriter, r *http.Request) {
	from, ok, err := queryDate(r, "from")
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "LAYUP_INVALID_DATE", "from must be YYYY-MM-DD", nil)
		return
	}
	if !ok {
		from = c.schedules.Today()
	}
	to, ok, err := queryDate(r, "to")
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "LAYUP_INVALID_DATE", "to must be YYYY-MM-DD", nil)
		return
	}
	if !ok {
		to = from.AddDate(0, 0, 7*defaultListWeeks)
	}
	if to.Before(from) {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "LAYUP_INVALID_WINDOW", "to must not be before from", nil)
		return
	}

	out, err := c.schedules.List(r.Context(), from, to)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err, errorStatuses)
		return
	}
	if out == nil {
		out = []schedule.Assignment{}
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *ScheduleController) Override(w http.ResponseWriter, r *http.Request) {
	var dto dtos.OverrideDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "LAYUP_INVALID_BODY", err.Error(), nil)
		return
	}
	if err := constants.Validate.Struct(dto); err != nil {
		_ = httpapi.WriteValidationError(w, err)
		return
	}
	a, err := c.schedules.Override(r.Context(), services.OverrideInput{
		OrderID: dto.OrderID,
		MoldID:  dto.MoldID,
		Date:    dto.ParsedDate(),
		By:      dto.By,
	})
	if err != nil {
		_ = httpapi.WriteServiceError(w, err, errorStatuses)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, a)
}

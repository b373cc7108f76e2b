package controllers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/glennajones/gummy-bear/modules/hrm/domain/entities/layupsetting"
	"github.com/glennajones/gummy-bear/modules/hrm/services"
	"github.com/glennajones/gummy-bear/pkg/application"
	"github.com/glennajones/gummy-bear/pkg/constants"
	"github.com/glennajones/gummy-bear/pkg/httpapi"
)

var errorStatuses = map[string]int{
	layupsetting.ErrNotFound.Code:     http.StatusNotFound,
	layupsetting.ErrInvalidRate.Code:  http.StatusUnprocessableEntity,
	layupsetting.ErrInvalidHours.Code: http.StatusUnprocessableEntity,
}

type LayupSettingController struct {
	settings *services.LayupSettingService
	basePath string
}

func NewLayupSettingController(app application.Application) application.Controller {
	return &LayupSettingController{
		settings: app.Service(services.LayupSettingService{}).(*services.LayupSettingService),
		basePath: "/hrm/layup-settings",
	}
}

func (c *LayupSettingController) Key() string {
	return c.basePath
}

func (c *LayupSettingController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{employeeID}", c.Update).Methods(http.MethodPut, http.MethodPatch)
}

// List returns every setting, or only the active ones of a department when
// ?department= is given.
func (c *LayupSettingController) List(w http.ResponseWriter, r *http.Request) {
	var (
		out []layupsetting.Setting
		err error
	)
	if department := strings.TrimSpace(r.URL.Query().Get("department")); department != "" {
		out, err = c.settings.GetActive(r.Context(), department)
	} else {
		out, err = c.settings.GetAll(r.Context())
	}
	if err != nil {
		_ = httpapi.WriteServiceError(w, err, errorStatuses)
		return
	}
	if out == nil {
		out = []layupsetting.Setting{}
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *LayupSettingController) Update(w http.ResponseWriter, r *http.Request) {
	var dto layupsetting.UpdateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "HRM_INVALID_BODY", err.Error(), nil)
		return
	}
	if err := constants.Validate.Struct(dto); err != nil {
		_ = httpapi.WriteValidationError(w, err)
		return
	}
	saved, err := c.settings.Update(r.Context(), mux.Vars(r)["employeeID"], dto)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err, errorStatuses)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, saved)
}

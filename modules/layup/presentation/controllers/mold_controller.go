package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/mold"
	"github.com/glennajones/gummy-bear/modules/layup/presentation/dtos"
	"github.com/glennajones/gummy-bear/modules/layup/services"
	"github.com/glennajones/gummy-bear/pkg/application"
	"github.com/glennajones/gummy-bear/pkg/constants"
	"github.com/glennajones/gummy-bear/pkg/httpapi"
)

type MoldController struct {
	molds    *services.MoldService
	basePath string
}

func NewMoldController(app application.Application) application.Controller {
	return &MoldController{
		molds:    app.Service(services.MoldService{}).(*services.MoldService),
		basePath: "/layup/molds",
	}
}

func (c *MoldController) Key() string {
	return c.basePath
}

func (c *MoldController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPatch)
}

func (c *MoldController) List(w http.ResponseWriter, r *http.Request) {
	out, err := c.molds.GetAll(r.Context())
	if err != nil {
		_ = httpapi.WriteServiceError(w, err, errorStatuses)
		return
	}
	if out == nil {
		out = []mold.Mold{}
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *MoldController) Get(w http.ResponseWriter, r *http.Request) {
	m, err := c.molds.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteServiceError(w, err, errorStatuses)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, m)
}

func (c *MoldController) Create(w http.ResponseWriter, r *http.Request) {
	var dto dtos.CreateMoldDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "LAYUP_INVALID_BODY", err.Error(), nil)
		return
	}
	if err := constants.Validate.Struct(dto); err != nil {
		_ = httpapi.WriteValidationError(w, err)
		return
	}
	m, err := c.molds.Create(r.Context(), dto.ToEntity())
	if err != nil {
		_ = httpapi.WriteServiceError(w, err, errorStatuses)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, m)
}

// Update toggles whether the scheduler may use the mold.
func (c *MoldController) Update(w http.ResponseWriter, r *http.Request) {
	var dto dtos.UpdateMoldDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "LAYUP_INVALID_BODY", err.Error(), nil)
		return
	}
	if err := constants.Validate.Struct(dto); err != nil {
		_ = httpapi.WriteValidationError(w, err)
		return
	}
	m, err := c.molds.SetEnabled(r.Context(), mux.Vars(r)["id"], *dto.Enabled)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err, errorStatuses)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, m)
}

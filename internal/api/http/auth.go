package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (l *loginRequest) Bind(*http.Request) error { return nil }

type createAdminRequest struct {
	MasterPassword string `json:"masterPassword"`
	Username       string `json:"username"`
	Password       string `json:"password"`
}

func (c *createAdminRequest) Bind(*http.Request) error { return nil }

type deleteAdminRequest struct {
	MasterPassword string `json:"masterPassword"`
}

func (d *deleteAdminRequest) Bind(*http.Request) error { return nil }

type changePasswordRequest struct {
	Username        string `json:"username"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (c *changePasswordRequest) Bind(*http.Request) error { return nil }

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	data := &loginRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	token, err := s.auth.Login(r.Context(), data.Username, data.Password)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Logged in", map[string]string{"authToken": token})
}

func (s *Server) createAdmin(w http.ResponseWriter, r *http.Request) {
	data := &createAdminRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	if err := s.auth.CreateAdmin(r.Context(), data.MasterPassword, data.Username, data.Password); err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusCreated, "Admin created", nil)
}

func (s *Server) deleteAdmin(w http.ResponseWriter, r *http.Request) {
	data := &deleteAdminRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	if err := s.auth.DeleteAdmin(r.Context(), data.MasterPassword, chi.URLParam(r, "username")); err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Admin deleted", nil)
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	data := &changePasswordRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	if err := s.auth.ChangePassword(r.Context(), data.Username, data.CurrentPassword, data.NewPassword); err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Password changed", nil)
}

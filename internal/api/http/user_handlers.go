package httpapi

import (
	"net/http"

	"kungfu-delivery/internal/domain"

	"github.com/shopspring/decimal"
)

type rechargeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var in domain.RegisterUser
	if err := h.Validator.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.Users.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, "注册成功", user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in domain.Credentials
	if err := h.Validator.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.Users.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "登录成功", result)
}

func (h *Handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	var in domain.Credentials
	if err := h.Validator.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.Users.AdminLogin(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "管理员登录成功", result)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.Profile(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", user)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var in domain.ProfileUpdate
	if err := h.Validator.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.Users.UpdateProfile(r.Context(), principal(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "个人信息更新成功", user)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var in domain.PasswordChange
	if err := h.Validator.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Users.ChangePassword(r.Context(), principal(r), in); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "密码修改成功", nil)
}

func (h *Handler) recharge(w http.ResponseWriter, r *http.Request) {
	var in rechargeRequest
	if err := h.Validator.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	balance, err := h.Users.Recharge(r.Context(), principal(r), in.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "充值成功", map[string]any{"newBalance": balance})
}

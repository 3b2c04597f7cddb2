package employee

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-admin-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-admin-go/internal/employee/entity"
	"github.com/ovaphlow/pitchfork/service-admin-go/internal/result"
)

// Handler exposes HTTP endpoints for employee login and administration.
type Handler struct {
	svc    *EmployeeService
	tokens *auth.Issuer
	cfg    auth.Config
	logger *zap.SugaredLogger
}

func NewHandler(svc *EmployeeService, tokens *auth.Issuer, cfg auth.Config, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, tokens: tokens, cfg: cfg, logger: logger}
}

// LoginRequest login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned inside the success envelope.
type LoginResponse struct {
	ID       int64  `json:"id"`
	UserName string `json:"userName"`
	Name     string `json:"name"`
	Token    string `json:"token"`
}

// EmployeeRequest is the body of create and update.
type EmployeeRequest struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Sex      string `json:"sex"`
	IDNumber string `json:"idNumber"`
	Role     string `json:"role"`
}

func (req EmployeeRequest) toEntity() *entity.Employee {
	return &entity.Employee{
		ID:       req.ID,
		Username: req.Username,
		Name:     req.Name,
		Phone:    req.Phone,
		Sex:      req.Sex,
		IDNumber: req.IDNumber,
		Role:     req.Role,
	}
}

// PasswordEditRequest body of the password edit endpoint.
type PasswordEditRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.logger.Infow("employee login", "username", req.Username)
	e, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Debugw("login failed", "username", req.Username, "err", err)
		status, msg := describe(err)
		if status == http.StatusNotFound {
			status = http.StatusUnauthorized
		}
		result.Write(w, status, result.Error(msg))
		return
	}
	token, err := h.tokens.IssueForEmployee(e.ID, h.cfg.AdminSecret, h.cfg.AdminTTL)
	if err != nil {
		h.logger.Errorw("issue token", "employee_id", e.ID, "err", err)
		result.Write(w, http.StatusInternalServerError, result.Error("operation failed"))
		return
	}
	result.Write(w, http.StatusOK, result.SuccessWith(LoginResponse{
		ID:       e.ID,
		UserName: e.Username,
		Name:     e.Name,
		Token:    token,
	}))
}

// Logout only acknowledges; tokens are stateless and expire on their own.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	result.Write(w, http.StatusOK, result.Success())
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}
	id, err := h.svc.Create(r.Context(), req.toEntity())
	if err != nil {
		h.fail(w, "create employee", err)
		return
	}
	h.logger.Infow("employee created", "id", id, "username", req.Username)
	result.Write(w, http.StatusOK, result.Success())
}

func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	out, err := h.svc.Page(r.Context(), q.Get("name"), page, pageSize)
	if err != nil {
		h.fail(w, "page employees", err)
		return
	}
	result.Write(w, http.StatusOK, result.SuccessWith(out))
}

// SetStatus handles POST /admin/employee/status/{status}?id=.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := strconv.Atoi(r.PathValue("status"))
	if err != nil {
		result.Write(w, http.StatusBadRequest, result.Error("invalid request"))
		return
	}
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		result.Write(w, http.StatusBadRequest, result.Error("invalid request"))
		return
	}
	if err := h.svc.SetStatus(r.Context(), id, status); err != nil {
		h.fail(w, "set employee status", err)
		return
	}
	result.Write(w, http.StatusOK, result.Success())
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		result.Write(w, http.StatusBadRequest, result.Error("invalid request"))
		return
	}
	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get employee", err)
		return
	}
	result.Write(w, http.StatusOK, result.SuccessWith(e))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.svc.Update(r.Context(), req.toEntity()); err != nil {
		h.fail(w, "update employee", err)
		return
	}
	result.Write(w, http.StatusOK, result.Success())
}

// EditPassword changes the password of the employee the token belongs to.
func (h *Handler) EditPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.EmployeeIDFrom(r.Context())
	if !ok {
		result.Write(w, http.StatusUnauthorized, result.Error("not logged in"))
		return
	}
	var req PasswordEditRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.svc.EditPassword(r.Context(), id, req.OldPassword, req.NewPassword); err != nil {
		h.fail(w, "edit password", err)
		return
	}
	result.Write(w, http.StatusOK, result.Success())
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logger.Debugw("invalid payload", "path", r.URL.Path, "err", err)
		result.Write(w, http.StatusBadRequest, result.Error("invalid request"))
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	status, msg := describe(err)
	if status >= http.StatusInternalServerError {
		h.logger.Warnw(op+" failed", "err", err)
	} else {
		h.logger.Debugw(op+" failed", "err", err)
	}
	result.Write(w, status, result.Error(msg))
}

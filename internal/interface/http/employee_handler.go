package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/employee-management-api/internal/application"
	"github.com/oksasatya/employee-management-api/internal/domain/entity"
	"github.com/oksasatya/employee-management-api/pkg/response"
	"github.com/oksasatya/employee-management-api/pkg/validation"
)

// EmployeeService is what the handler needs from the application layer.
type EmployeeService interface {
	Create(ctx context.Context, in application.EmployeeInput) (*entity.Employee, error)
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
	Update(ctx context.Context, id string, in application.EmployeeInput) (*entity.Employee, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Employee, error)
}

type EmployeeHandler struct {
	Svc    EmployeeService
	Logger *logrus.Logger
}

func NewEmployeeHandler(svc EmployeeService, logger *logrus.Logger) *EmployeeHandler {
	return &EmployeeHandler{Svc: svc, Logger: logger}
}

// employeeRequest is the body of POST and PUT. Salary is a pointer so a
// missing value is told apart from zero.
type employeeRequest struct {
	FirstName  string   `json:"firstName" binding:"required"`
	LastName   string   `json:"lastName" binding:"required"`
	Email      string   `json:"email" binding:"required,email"`
	Department string   `json:"department" binding:"required"`
	Salary     *float64 `json:"salary" binding:"required,money"`
}

func (r employeeRequest) input() application.EmployeeInput {
	return application.EmployeeInput{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Department: r.Department,
		Salary:     *r.Salary,
	}
}

func (h *EmployeeHandler) bind(c *gin.Context) (application.EmployeeInput, bool) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Summary(err))
		return application.EmployeeInput{}, false
	}
	return req.input(), true
}

func (h *EmployeeHandler) pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid employee id: "+id)
		return "", false
	}
	return id, true
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}
	e, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	c.Header("Location", "/api/employees/"+e.ID)
	response.Success(c, http.StatusCreated, e)
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	e, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, e)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	in, ok := h.bind(c)
	if !ok {
		return
	}
	e, err := h.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, e)
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}

func (h *EmployeeHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	taskdomain "github.com/cocinamqb/stockdiario/internal/task/domain"
)

type createPendingRequest struct {
	Text string `json:"text"`
}

func (s *Server) CreatePending(c *gin.Context) {
	var req createPendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taskSvc.CreatePending(c.Request.Context(), strings.TrimSpace(req.Text))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPendings(c *gin.Context) {
	resp, err := s.taskSvc.ListPendings(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeletePending(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.taskSvc.DeletePending(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

type createTaskRequest struct {
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Assignee    string `json:"assignee"`
}

func (s *Server) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taskSvc.CreateTask(c.Request.Context(), taskdomain.CreateTaskRequest{
		Description: strings.TrimSpace(req.Description),
		DueDate:     strings.TrimSpace(req.DueDate),
		Assignee:    strings.TrimSpace(req.Assignee),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTasks(c *gin.Context) {
	resp, err := s.taskSvc.ListTasks(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateTaskRequest struct {
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Assignee    *string `json:"assignee"`
	Done        *bool   `json:"done"`
}

func (s *Server) UpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taskSvc.UpdateTask(c.Request.Context(), taskdomain.UpdateTaskRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		Description: req.Description,
		DueDate:     req.DueDate,
		Assignee:    req.Assignee,
		Done:        req.Done,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CompleteTask(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.taskSvc.CompleteTask(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"completed": true}})
}

func (s *Server) DeleteTask(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.taskSvc.DeleteTask(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

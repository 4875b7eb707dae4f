package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"docmind/internal/app"
	"docmind/internal/transport/http/response"
)

type QueryHandler struct {
	queryService *app.QueryService
}

type QueryRequest struct {
	Question string `json:"question" binding:"required"`
	TopK     int    `json:"top_k"`
}

func NewQueryHandler(queryService *app.QueryService) *QueryHandler {
	return &QueryHandler{queryService: queryService}
}

func (h *QueryHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	answer, err := h.queryService.Answer(c.Request.Context(), req.Question, req.TopK)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "question must not be empty")
			return
		}
		log.Printf("handler: query failed: %v", err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "query failed: "+err.Error())
		return
	}
	response.OK(c, answer)
}

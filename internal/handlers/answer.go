package handlers

import (
	"net/http"

	"codeask/internal/middleware"
	"codeask/internal/models"
	"codeask/internal/services"

	"github.com/gin-gonic/gin"
)

type AnswerHandler struct {
	answers *services.AnswerService
	votes   *services.VoteService
}

func NewAnswerHandler(answers *services.AnswerService, votes *services.VoteService) *AnswerHandler {
	return &AnswerHandler{answers: answers, votes: votes}
}

func (h *AnswerHandler) Create(c *gin.Context) {
	var req struct {
		QuestionID uint   `json:"questionId" binding:"required"`
		Body       string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	answer, err := h.answers.Create(middleware.CurrentUser(c), req.QuestionID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, answer)
}

func (h *AnswerHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	answer, err := h.answers.Edit(id, middleware.CurrentUser(c), req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, answer)
}

func (h *AnswerHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.answers.Delete(id, middleware.CurrentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"message": "answer deleted"})
}

func (h *AnswerHandler) Vote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	value, ok := voteValue(req.Type)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vote type must be 'up' or 'down'"})
		return
	}
	score, err := h.votes.Cast(middleware.CurrentUser(c), models.TargetAnswer, id, value)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"votes": score})
}

// Accept marks the answer as its question's accepted one. The service
// enforces the asker-only rule and accept-exclusivity.
func (h *AnswerHandler) Accept(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	answer, err := h.answers.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	accepted, err := h.answers.Accept(answer.QuestionID, id, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, accepted)
}

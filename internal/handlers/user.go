package handlers

import (
	"net/http"

	"codeask/internal/models"
	"codeask/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	db        *gorm.DB
	questions *services.QuestionService
	answers   *services.AnswerService
}

func NewUserHandler(db *gorm.DB, questions *services.QuestionService, answers *services.AnswerService) *UserHandler {
	return &UserHandler{db: db, questions: questions, answers: answers}
}

func (h *UserHandler) Profile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	respondData(c, http.StatusOK, user)
}

func (h *UserHandler) Questions(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page, limit := pageParams(c)
	questions, total, err := h.questions.ListByAuthor(id, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, questions, total, page, limit)
}

func (h *UserHandler) Answers(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page, limit := pageParams(c)
	answers, total, err := h.answers.ListByAuthor(id, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, answers, total, page, limit)
}

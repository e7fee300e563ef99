package handlers

import (
	"fmt"
	"net/http"
	"time"

	"codeask/internal/middleware"
	"codeask/internal/models"
	"codeask/internal/services"
	"codeask/internal/utils"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questions *services.QuestionService
	answers   *services.AnswerService
	votes     *services.VoteService
	tags      *services.TagService
	views     *utils.ViewTracker
}

func NewQuestionHandler(questions *services.QuestionService, answers *services.AnswerService,
	votes *services.VoteService, tags *services.TagService) *QuestionHandler {
	return &QuestionHandler{
		questions: questions,
		answers:   answers,
		votes:     votes,
		tags:      tags,
		views:     utils.NewViewTracker(10000, 30*time.Minute),
	}
}

type questionRequest struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
}

func (h *QuestionHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	questions, total, err := h.questions.List(services.QuestionListOptions{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
		Sort:   c.DefaultQuery("sort", "newest"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, questions, total, page, limit)
}

// Detail returns the question with its answers rendered to sanitized HTML,
// and counts the view if this viewer hasn't been counted within the window.
func (h *QuestionHandler) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	question, err := h.questions.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	// De-dup window is the HTTP layer's concern; the core just takes the flag.
	user := middleware.CurrentUser(c)
	viewerKey := "ip:" + c.ClientIP()
	if user != nil {
		viewerKey = fmt.Sprintf("user:%d", user.ID)
	}
	if h.views.ShouldCount(id, viewerKey) {
		if err := h.questions.IncrementView(id, true); err == nil {
			question.Views++
		}
	}

	question.BodyHTML = utils.RenderMarkdown(question.Body)
	if user != nil {
		question.IsBookmarked = h.questions.IsBookmarked(id, user.ID)
		question.ViewerVote = h.votes.Get(user.ID, models.TargetQuestion, id)
	}

	answers, err := h.answers.ListByQuestion(id)
	if err != nil {
		respondError(c, err)
		return
	}
	for i := range answers {
		answers[i].BodyHTML = utils.RenderMarkdown(answers[i].Body)
		if user != nil {
			answers[i].ViewerVote = h.votes.Get(user.ID, models.TargetAnswer, answers[i].ID)
		}
	}
	question.Answers = answers

	respondData(c, http.StatusOK, question)
}

func (h *QuestionHandler) Create(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	question, err := h.questions.Create(middleware.CurrentUser(c), req.Title, req.Body, req.Tags)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, question)
}

func (h *QuestionHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title *string  `json:"title"`
		Body  *string  `json:"body"`
		Tags  []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	question, err := h.questions.Edit(id, middleware.CurrentUser(c), services.QuestionPatch{
		Title: req.Title,
		Body:  req.Body,
		Tags:  req.Tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, question)
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.questions.Delete(id, middleware.CurrentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"message": "question deleted"})
}

type voteRequest struct {
	Type string `json:"type" binding:"required"` // up or down
}

func voteValue(kind string) (int, bool) {
	switch kind {
	case "up":
		return models.VoteUp, true
	case "down":
		return models.VoteDown, true
	}
	return 0, false
}

func (h *QuestionHandler) Vote(c *gin.Context) {
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
	score, err := h.votes.Cast(middleware.CurrentUser(c), models.TargetQuestion, id, value)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"votes": score})
}

func (h *QuestionHandler) Bookmark(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	bookmarked, err := h.questions.ToggleBookmark(id, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"isBookmarked": bookmarked})
}

func (h *QuestionHandler) Tags(c *gin.Context) {
	tags, err := h.tags.List()
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, tags)
}

// Reconcile rebuilds the question's derived counters from the vote and answer
// tables. Admin-only recovery endpoint.
func (h *QuestionHandler) Reconcile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	question, err := h.questions.Reconcile(id, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, question)
}

package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"codeask/internal/models"

	"gorm.io/gorm"
)

const (
	minTitleLen = 10
	minBodyLen  = 20
)

// QuestionService owns the question lifecycle: create, edit, tombstone, view
// counting and the derived-counter rebuild. Scores and answer counts are never
// written here outside Reconcile; the vote ledger and answer lifecycle own
// their deltas.
type QuestionService struct {
	db   *gorm.DB
	tags *TagService
}

func NewQuestionService(db *gorm.DB, tags *TagService) *QuestionService {
	return &QuestionService{db: db, tags: tags}
}

// QuestionPatch carries the editable fields; nil means unchanged.
type QuestionPatch struct {
	Title *string
	Body  *string
	Tags  []string
}

// QuestionListOptions filters and pages the question index.
type QuestionListOptions struct {
	Page   int
	Limit  int
	Search string
	Tag    string
	Sort   string // newest, votes, views
}

func validateTitle(title string) error {
	// Counted in characters, not bytes, so multibyte titles are not padded.
	if utf8.RuneCountInString(strings.TrimSpace(title)) < minTitleLen {
		return fmt.Errorf("%w: title must be at least %d characters", ErrValidation, minTitleLen)
	}
	return nil
}

func validateBody(body string) error {
	if utf8.RuneCountInString(strings.TrimSpace(body)) < minBodyLen {
		return fmt.Errorf("%w: body must be at least %d characters", ErrValidation, minBodyLen)
	}
	return nil
}

// Create validates and stores a new question. Tags are normalized and
// registered through the tag service.
func (s *QuestionService) Create(actor *models.User, title, body string, rawTags []string) (*models.Question, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateBody(body); err != nil {
		return nil, err
	}
	tags, err := s.tags.ResolveSet(rawTags)
	if err != nil {
		return nil, err
	}

	question := models.Question{
		AuthorID: actor.ID,
		Title:    strings.TrimSpace(title),
		Body:     body,
		Tags:     tags,
	}
	if err := s.db.Create(&question).Error; err != nil {
		return nil, err
	}
	question.Author = *actor
	question.FillTagNames()
	return &question, nil
}

// Get loads a question with author and tags. Tombstoned questions are not
// found.
func (s *QuestionService) Get(id uint) (*models.Question, error) {
	var question models.Question
	err := s.db.Preload("Author").Preload("Tags").First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question %d", ErrNotFound, id)
		}
		return nil, err
	}
	question.FillTagNames()
	return &question, nil
}

// List pages through non-deleted questions with optional search, tag filter
// and sort order.
func (s *QuestionService) List(opts QuestionListOptions) ([]models.Question, int64, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 || opts.Limit > 100 {
		opts.Limit = 20
	}

	// Built twice, once for the count and once for the page, to keep the two
	// queries from sharing chain state.
	filtered := func() *gorm.DB {
		query := s.db.Model(&models.Question{})
		if opts.Search != "" {
			like := "%" + opts.Search + "%"
			query = query.Where("title LIKE ? OR body LIKE ?", like, like)
		}
		if opts.Tag != "" {
			query = query.
				Joins("JOIN question_tags ON question_tags.question_id = questions.id").
				Joins("JOIN tags ON tags.id = question_tags.tag_id").
				Where("tags.name = ?", opts.Tag)
		}
		return query
	}

	var total int64
	if err := filtered().Distinct("questions.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := filtered()
	switch opts.Sort {
	case "votes":
		query = query.Order("questions.score DESC, questions.created_at DESC")
	case "views":
		query = query.Order("questions.views DESC, questions.created_at DESC")
	default:
		query = query.Order("questions.created_at DESC")
	}

	var questions []models.Question
	err := query.Preload("Author").Preload("Tags").
		Limit(opts.Limit).
		Offset((opts.Page - 1) * opts.Limit).
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}
	for i := range questions {
		questions[i].FillTagNames()
	}
	return questions, total, nil
}

// ListByAuthor pages a user's non-deleted questions, newest first.
func (s *QuestionService) ListByAuthor(authorID uint, page, limit int) ([]models.Question, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.db.Model(&models.Question{}).Where("author_id = ?", authorID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var questions []models.Question
	err := s.db.Preload("Author").Preload("Tags").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}
	for i := range questions {
		questions[i].FillTagNames()
	}
	return questions, total, nil
}

// Edit applies a patch after re-running the create validations on the changed
// fields. Only the author or an admin may edit.
func (s *QuestionService) Edit(id uint, actor *models.User, patch QuestionPatch) (*models.Question, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var question models.Question
	if err := s.db.First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question %d", ErrNotFound, id)
		}
		return nil, err
	}
	if !canModerate(actor, question.AuthorID) {
		return nil, fmt.Errorf("%w: only the author or an admin may edit this question", ErrForbidden)
	}

	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return nil, err
		}
		question.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Body != nil {
		if err := validateBody(*patch.Body); err != nil {
			return nil, err
		}
		question.Body = *patch.Body
	}

	var tags []models.Tag
	if patch.Tags != nil {
		var err error
		tags, err = s.tags.ResolveSet(patch.Tags)
		if err != nil {
			return nil, err
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&question).Error; err != nil {
			return err
		}
		if patch.Tags != nil {
			if err := tx.Model(&question).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete sets the tombstone. Existing answers stay addressable for audit; new
// answers and votes are rejected against the tombstoned question.
func (s *QuestionService) Delete(id uint, actor *models.User) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	var question models.Question
	if err := s.db.First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: question %d", ErrNotFound, id)
		}
		return err
	}
	if !canModerate(actor, question.AuthorID) {
		return fmt.Errorf("%w: only the author or an admin may delete this question", ErrForbidden)
	}
	return s.db.Delete(&question).Error
}

// IncrementView bumps the view counter when the caller's dedup window says
// this view counts. The window itself lives outside the domain core.
func (s *QuestionService) IncrementView(id uint, countView bool) error {
	if !countView {
		return nil
	}
	result := s.db.Model(&models.Question{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: question %d", ErrNotFound, id)
	}
	return nil
}

// Reconcile rebuilds the question's derived counters, and its answers'
// scores, from the authoritative vote and answer rows. Recovery path for
// counter drift; admin only.
func (s *QuestionService) Reconcile(id uint, actor *models.User) (*models.Question, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: reconcile is an admin operation", ErrForbidden)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var question models.Question
		if err := tx.First(&question, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: question %d", ErrNotFound, id)
			}
			return err
		}

		var score int64
		if err := tx.Model(&models.Vote{}).
			Where("target_type = ? AND target_id = ?", models.TargetQuestion, id).
			Select("COALESCE(SUM(value), 0)").
			Scan(&score).Error; err != nil {
			return err
		}
		var answerCount int64
		if err := tx.Model(&models.Answer{}).Where("question_id = ?", id).Count(&answerCount).Error; err != nil {
			return err
		}
		if err := tx.Model(&question).UpdateColumns(map[string]interface{}{
			"score":        score,
			"answer_count": answerCount,
		}).Error; err != nil {
			return err
		}

		var answers []models.Answer
		if err := tx.Where("question_id = ?", id).Find(&answers).Error; err != nil {
			return err
		}
		for _, answer := range answers {
			var answerScore int64
			if err := tx.Model(&models.Vote{}).
				Where("target_type = ? AND target_id = ?", models.TargetAnswer, answer.ID).
				Select("COALESCE(SUM(value), 0)").
				Scan(&answerScore).Error; err != nil {
				return err
			}
			if err := tx.Model(&answer).UpdateColumn("score", answerScore).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// ToggleBookmark flips the actor's bookmark on a question and returns the new
// state.
func (s *QuestionService) ToggleBookmark(id uint, actor *models.User) (bool, error) {
	if err := requireActor(actor); err != nil {
		return false, err
	}
	var question models.Question
	if err := s.db.First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: question %d", ErrNotFound, id)
		}
		return false, err
	}

	var bookmark models.Bookmark
	err := s.db.Where("user_id = ? AND question_id = ?", actor.ID, id).First(&bookmark).Error
	if err == nil {
		return false, s.db.Delete(&bookmark).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return true, s.db.Create(&models.Bookmark{UserID: actor.ID, QuestionID: id}).Error
}

// IsBookmarked reports whether the user has bookmarked the question.
func (s *QuestionService) IsBookmarked(id, userID uint) bool {
	if userID == 0 {
		return false
	}
	var count int64
	s.db.Model(&models.Bookmark{}).Where("user_id = ? AND question_id = ?", userID, id).Count(&count)
	return count > 0
}

package services

import (
	"fmt"
	"strings"
	"testing"

	"codeask/internal/db"
	"codeask/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixture wires the full domain core over an in-memory SQLite database.
type fixture struct {
	db        *gorm.DB
	notifier  *Notifier
	tags      *TagService
	questions *QuestionService
	answers   *AnswerService
	votes     *VoteService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	// A single connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(database))

	notifier := NewNotifier(database)
	tags := NewTagService(database)
	return &fixture{
		db:        database,
		notifier:  notifier,
		tags:      tags,
		questions: NewQuestionService(database, tags),
		answers:   NewAnswerService(database, notifier),
		votes:     NewVoteService(database, notifier),
	}
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	user := models.User{
		Username: name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "hash",
		Role:     models.RoleUser,
	}
	require.NoError(t, f.db.Create(&user).Error)
	return &user
}

func (f *fixture) admin(t *testing.T, name string) *models.User {
	t.Helper()
	user := f.user(t, name)
	user.Role = models.RoleAdmin
	require.NoError(t, f.db.Save(user).Error)
	return user
}

func (f *fixture) question(t *testing.T, author *models.User) *models.Question {
	t.Helper()
	question, err := f.questions.Create(author,
		"How do I sort a list?",
		strings.Repeat("x", 25),
		[]string{"python"})
	require.NoError(t, err)
	return question
}

func (f *fixture) answer(t *testing.T, author *models.User, questionID uint) *models.Answer {
	t.Helper()
	answer, err := f.answers.Create(author, questionID, strings.Repeat("y", 30))
	require.NoError(t, err)
	return answer
}

func (f *fixture) notifications(t *testing.T, userID uint) []models.Notification {
	t.Helper()
	var notifications []models.Notification
	require.NoError(t, f.db.Where("user_id = ?", userID).Order("id ASC").Find(&notifications).Error)
	return notifications
}

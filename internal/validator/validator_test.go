package validator

import (
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *govalidator.Validate {
	v := govalidator.New()
	v.SetTagName("binding")
	Register(v)
	return v
}

func TestCustomTags(t *testing.T) {
	v := newValidator()

	ok := model.CreateExamRequest{
		Role:          "Backend Engineer",
		Category:      model.CategoryCoding,
		Difficulty:    model.DifficultyExpert,
		InvitedEmails: []string{"ana@example.com"},
	}
	require.NoError(t, v.Struct(ok))

	bad := ok
	bad.Category = "POETRY"
	bad.Difficulty = "HARD"
	err := v.Struct(bad)
	require.Error(t, err)

	fields := TranslateErrors(err)
	assert.Contains(t, fields["category"], "TECHNICAL")
	assert.Contains(t, fields["difficulty"], "BEGINNER")
}

func TestAccessCodeAndLanguage(t *testing.T) {
	v := newValidator()

	login := model.ExamLoginRequest{Code: "ab12cd", Email: "ana@example.com", Password: "secret1"}
	assert.NoError(t, v.Struct(login))

	login.Code = "AB-12"
	fields := TranslateErrors(v.Struct(login))
	assert.Contains(t, fields, "code")

	req := model.ValidateCodeRequest{Problem: "Reverse a linked list", Language: "Java", Code: "class A {}"}
	assert.NoError(t, v.Struct(req))
	req.Language = "cobol"
	fields = TranslateErrors(v.Struct(req))
	assert.Contains(t, fields["language"], "python")
}

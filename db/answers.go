package db

import (
	"strings"

	"github.com/rs/zerolog/log"

	models "github.com/grvlle/qanda/model"
)

// AnswersFor lists the answers given to a question, oldest first.
func (db *Database) AnswersFor(questionID uint) ([]models.Answer, error) {
	answers := []models.Answer{}
	err := db.Where("question_id = ?", questionID).Order("created_at asc").Order("id asc").Find(&answers).Error
	if err != nil {
		return nil, storeErr(err, "unable to list answers of question %d", questionID)
	}
	return answers, nil
}

// AnswersByUser lists the latest answers written by one user.
func (db *Database) AnswersByUser(userID uint, limit int) ([]models.Answer, error) {
	if limit < 1 {
		limit = DefaultPageSize
	}
	answers := []models.Answer{}
	err := db.Where("user_id = ?", userID).Order("created_at desc").Limit(limit).Find(&answers).Error
	if err != nil {
		return nil, storeErr(err, "unable to list answers of user %d", userID)
	}
	return answers, nil
}

// InsertAnswer appends an answer to an existing question.
func (db *Database) InsertAnswer(userID, questionID uint, text string) (*models.Answer, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("answer text is empty")
	}
	if _, err := db.QuestionByID(questionID); err != nil {
		return nil, err
	}
	a := &models.Answer{Text: text, QuestionID: questionID, UserID: userID}
	if err := CreateNewDBRecord(db.DB, a); err != nil {
		return nil, err
	}
	log.Info().Uint("answer", a.ID).Uint("question", questionID).Uint("user", userID).Msg("Answer stored")
	return a, nil
}

// AnswerCount returns how many answers a question has.
func (db *Database) AnswerCount(questionID uint) (int, error) {
	var n int
	if err := db.Model(&models.Answer{}).Where("question_id = ?", questionID).Count(&n).Error; err != nil {
		return 0, storeErr(err, "unable to count answers of question %d", questionID)
	}
	return n, nil
}

type answerTotal struct {
	QuestionID uint
	Total      int
}

// AnswerCounts returns the number of answers per question for ids.
// Questions without answers are present with a zero count.
func (db *Database) AnswerCounts(ids []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	for _, id := range ids {
		counts[id] = 0
	}
	var totals []answerTotal
	err := db.Table("answers").
		Select("question_id, count(*) as total").
		Where("question_id IN (?)", ids).
		Group("question_id").
		Scan(&totals).Error
	if err != nil {
		return nil, storeErr(err, "unable to count answers")
	}
	for _, t := range totals {
		counts[t.QuestionID] = t.Total
	}
	return counts, nil
}

package db

import (
	"strings"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	models "github.com/grvlle/qanda/model"
)

const (
	voteTotalColumns   = "questions.*, sum(votes.vote) as vote_ttl"
	answerTotalColumns = "questions.*, count(answers.id) as answers_ttl"

	joinVotes       = "JOIN votes ON questions.id = votes.question_id"
	joinAnswers     = "JOIN answers ON questions.id = answers.question_id"
	leftJoinAnswers = "LEFT JOIN answers ON questions.id = answers.question_id"
	joinTagLinks    = "JOIN tags_questions ON tags_questions.question_id = questions.id"
	joinTags        = "JOIN tags ON tags.id = tags_questions.tag_id"

	byVotes     = "vote_ttl desc"
	byAnswers   = "answers_ttl desc"
	byRecency   = "questions.created_at desc"
	byNewestRow = "questions.id desc"
)

// QuestionByID looks up a single question. A missing id is reported
// as ErrNotFound.
func (db *Database) QuestionByID(id uint) (*models.Question, error) {
	q := new(models.Question)
	if err := db.First(q, id).Error; err != nil {
		return nil, storeErr(err, "unable to find question %d", id)
	}
	return q, nil
}

// InsertQuestion stores a question asked by userID together with one
// tags_questions row per distinct tag id. The text is kept as given. Both happen in a single
// transaction so a question is never visible without its tags.
func (db *Database) InsertQuestion(userID uint, tagIDs []uint, text string, level int) (*models.Question, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalid("question text is empty")
	}
	tagIDs = uniqueIDs(tagIDs)
	if len(tagIDs) == 0 {
		return nil, invalid("a question needs at least one tag")
	}

	q := &models.Question{Text: text, Level: level, UserID: userID}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := CreateNewDBRecord(tx, q); err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			link := &models.TagQuestion{QuestionID: q.ID, TagID: tagID}
			if err := tx.Create(link).Error; err != nil {
				return errors.Wrapf(err, "unable to tag question %d with tag %d", q.ID, tagID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Uint("question", q.ID).Uint("user", userID).Int("tags", len(tagIDs)).Msg("Question stored")
	return q, nil
}

// UpdateQuestionText replaces the text of an existing question. Tags,
// votes and the creation time are left as they are.
func (db *Database) UpdateQuestionText(id uint, text string) (*models.Question, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalid("question text is empty")
	}
	q, err := db.QuestionByID(id)
	if err != nil {
		return nil, err
	}
	if err := db.Model(q).Update("question", text).Error; err != nil {
		return nil, storeErr(err, "unable to update question %d", id)
	}
	q.Text = text
	return q, nil
}

// TopQuestions ranks voted questions by their vote total, newest first
// among equal totals.
func (db *Database) TopQuestions(size, page int) (*Page, error) {
	return listing{
		base:    db.questions().Joins(joinVotes),
		columns: voteTotalColumns,
		grouped: true,
		order:   []string{byVotes, byRecency},
	}.page(size, page)
}

// NewestQuestions lists every question, most recently asked first.
func (db *Database) NewestQuestions(size, page int) (*Page, error) {
	return listing{
		base:    db.questions(),
		columns: "questions.*",
		order:   []string{byRecency},
	}.page(size, page)
}

// QuestionsByUser lists the questions asked by one user, newest first.
func (db *Database) QuestionsByUser(userID uint, size, page int) (*Page, error) {
	return listing{
		base:    db.questions().Where("questions.user_id = ?", userID),
		columns: "questions.*",
		order:   []string{byRecency},
	}.page(size, page)
}

// MostAnswered ranks answered questions carrying any of tags by how many
// answers they have.
func (db *Database) MostAnswered(tags []string, size, page int) (*Page, error) {
	if len(tags) == 0 {
		return emptyPage(size, page), nil
	}
	return listing{
		base: db.questions().
			Joins(joinAnswers).
			Joins(joinTagLinks).
			Joins(joinTags).
			Where("tags.name IN (?)", tags),
		columns: answerTotalColumns,
		grouped: true,
		order:   []string{byAnswers, byRecency},
	}.page(size, page)
}

// Unanswered lists voted questions carrying any of tags that have no
// answer yet, ranked by vote total.
func (db *Database) Unanswered(tags []string, size, page int) (*Page, error) {
	if len(tags) == 0 {
		return emptyPage(size, page), nil
	}
	return listing{
		base: db.questions().
			Joins(leftJoinAnswers).
			Joins(joinVotes).
			Joins(joinTagLinks).
			Joins(joinTags).
			Where("tags.name IN (?)", tags).
			Where("answers.id IS NULL"),
		columns: voteTotalColumns,
		grouped: true,
		order:   []string{byVotes, byRecency},
	}.page(size, page)
}

// RecentRelevant lists questions carrying any of tags, newest first,
// leaving out excludeID. A non-zero excludeID selects the related page
// size of p.
func (db *Database) RecentRelevant(tags []string, excludeID uint, p Pagination, page int) (*Page, error) {
	size := p.SizeFor(excludeID)
	if len(tags) == 0 {
		return emptyPage(size, page), nil
	}
	return listing{
		base: db.questions().
			Joins(joinTagLinks).
			Joins(joinTags).
			Where("questions.id != ?", excludeID).
			Where("tags.name IN (?)", tags),
		columns: "questions.*",
		grouped: true,
		order:   []string{byNewestRow},
	}.page(size, page)
}

// TopRelevant is RecentRelevant ranked by vote total instead of age.
func (db *Database) TopRelevant(tags []string, excludeID uint, p Pagination, page int) (*Page, error) {
	size := p.SizeFor(excludeID)
	if len(tags) == 0 {
		return emptyPage(size, page), nil
	}
	return listing{
		base: db.questions().
			Joins(joinVotes).
			Joins(joinTagLinks).
			Joins(joinTags).
			Where("tags.name IN (?)", tags).
			Where("questions.id != ?", excludeID),
		columns: voteTotalColumns,
		grouped: true,
		order:   []string{byVotes, byRecency},
	}.page(size, page)
}

// QuestionTags returns the tag names of a question in join order.
func (db *Database) QuestionTags(id uint) ([]string, error) {
	names := []string{}
	err := db.Table("tags").
		Joins("JOIN tags_questions ON tags.id = tags_questions.tag_id").
		Where("tags_questions.question_id = ?", id).
		Pluck("tags.name", &names).Error
	if err != nil {
		return nil, storeErr(err, "unable to list tags of question %d", id)
	}
	return names, nil
}

// SearchQuestions matches text against question text, answer text and
// tag names. The answer and vote joins are inner joins, so only
// questions with at least one answer and one vote can match; the three
// LIKE clauses are OR'd at the top level.
func (db *Database) SearchQuestions(text string, size, page int) (*Page, error) {
	pattern := "%" + text + "%"
	return listing{
		base: db.questions().
			Joins(joinAnswers).
			Joins(joinVotes).
			Joins(joinTagLinks).
			Joins(joinTags).
			Where("questions.question LIKE ?", pattern).
			Or("answers.answer LIKE ?", pattern).
			Or("tags.name LIKE ?", pattern),
		columns: voteTotalColumns,
		grouped: true,
		order:   []string{byVotes, byRecency},
	}.page(size, page)
}

// uniqueIDs drops zero and repeated ids, keeping first occurrences.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

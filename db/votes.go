package db

import (
	"database/sql"

	"github.com/rs/zerolog/log"

	models "github.com/grvlle/qanda/model"
)

// CastVote records a +1 or -1 vote on a question. A user may vote on
// the same question more than once; every vote counts.
func (db *Database) CastVote(userID, questionID uint, value int) (*models.Vote, error) {
	if value != 1 && value != -1 {
		return nil, invalid("a vote is either +1 or -1")
	}
	if _, err := db.QuestionByID(questionID); err != nil {
		return nil, err
	}
	v := &models.Vote{QuestionID: questionID, UserID: userID, Value: value}
	if err := CreateNewDBRecord(db.DB, v); err != nil {
		return nil, err
	}
	log.Info().Uint("question", questionID).Uint("user", userID).Int("vote", value).Msg("Vote cast")
	return v, nil
}

// VoteTotal sums the votes cast on a question. Unvoted questions total 0.
func (db *Database) VoteTotal(questionID uint) (int64, error) {
	var total sql.NullInt64
	row := db.Table("votes").Select("sum(vote)").Where("question_id = ?", questionID).Row()
	if err := row.Scan(&total); err != nil {
		return 0, storeErr(err, "unable to sum votes of question %d", questionID)
	}
	return total.Int64, nil
}

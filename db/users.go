package db

import (
	"github.com/jinzhu/gorm"

	models "github.com/grvlle/qanda/model"
)

// UserByID looks up a user, reporting ErrNotFound when missing.
func (db *Database) UserByID(id uint) (*models.User, error) {
	u := new(models.User)
	if err := db.First(u, id).Error; err != nil {
		return nil, storeErr(err, "unable to find user %d", id)
	}
	return u, nil
}

// CreateUser adds a user with no chat identity.
func (db *Database) CreateUser(name string) (*models.User, error) {
	u := &models.User{Name: name}
	if err := CreateNewDBRecord(db.DB, u); err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureSlackUser returns the user bound to a Slack user id, creating
// it on first contact.
func (db *Database) EnsureSlackUser(slackID, name string) (*models.User, error) {
	if slackID == "" {
		return nil, invalid("slack user id is empty")
	}
	u := new(models.User)
	err := db.Where("slack_user = ?", slackID).First(u).Error
	if err == nil {
		return u, nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return nil, storeErr(err, "unable to look up slack user %s", slackID)
	}
	u = &models.User{Name: name, SlackUser: &slackID}
	if err := CreateNewDBRecord(db.DB, u); err != nil {
		return nil, err
	}
	return u, nil
}

package model

import (
	"time"
)

/*User table in the Database */
type User struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	Name      string    `json:"name"`
	SlackUser *string   `gorm:"type:varchar(20);unique" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

/*Question table in the Database. Text lives in the
"question" column and must never be empty */
type Question struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	Text      string    `gorm:"column:question;type:text;not null" json:"question"`
	Level     int       `json:"level"`
	UserID    uint      `gorm:"index" json:"user_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Answers []Answer `json:"answers,omitempty"`
	Votes   []Vote   `json:"-"`
	Tags    []Tag    `gorm:"many2many:tags_questions;" json:"tags,omitempty"`
}

/*Answer table in the Database */
type Answer struct {
	ID         uint      `gorm:"primary_key" json:"id"`
	Text       string    `gorm:"column:answer;type:text;not null" json:"answer"`
	QuestionID uint      `gorm:"index" json:"question_id"`
	UserID     uint      `gorm:"index" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

/*Vote table in the Database. Value is +1 or -1 and
votes on a question are summed */
type Vote struct {
	ID         uint      `gorm:"primary_key" json:"id"`
	QuestionID uint      `gorm:"index" json:"question_id"`
	UserID     uint      `gorm:"index" json:"user_id"`
	Value      int       `gorm:"column:vote" json:"vote"`
	CreatedAt  time.Time `json:"created_at"`
}

/*Tag table in the Database */
type Tag struct {
	ID   uint   `gorm:"primary_key" json:"id"`
	Name string `gorm:"type:varchar(64);unique;not null" json:"name"`
}

// TagQuestion is a row of the tags_questions join table.
type TagQuestion struct {
	QuestionID uint `gorm:"primary_key;auto_increment:false"`
	TagID      uint `gorm:"primary_key;auto_increment:false"`
}

// TableName keeps the join table name shared with Question.Tags.
func (TagQuestion) TableName() string {
	return "tags_questions"
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{&User{}, &Tag{}, &Question{}, &Answer{}, &Vote{}}
}

package db

import (
	"github.com/jinzhu/gorm"

	models "github.com/grvlle/qanda/model"
)

// Default page sizes for standalone listings and for the
// related-questions sidebar next to a question.
const (
	DefaultPageSize        = 10
	DefaultRelatedPageSize = 5
)

// Pagination holds the page sizes a caller wants a listing cut into.
type Pagination struct {
	PageSize        int `yaml:"pageSize"`
	RelatedPageSize int `yaml:"relatedPageSize"`
}

// DefaultPagination returns the standard 10/5 page sizes.
func DefaultPagination() Pagination {
	return Pagination{PageSize: DefaultPageSize, RelatedPageSize: DefaultRelatedPageSize}
}

// SizeFor picks the related page size when a question is being
// excluded (a detail page sidebar), else the standard size.
func (p Pagination) SizeFor(excludeID uint) int {
	if excludeID > 0 {
		return p.RelatedPageSize
	}
	return p.PageSize
}

// RankedQuestion is a question row plus whatever aggregate the
// listing computed for it.
type RankedQuestion struct {
	models.Question
	VoteTotal   int64 `gorm:"column:vote_ttl" json:"vote_total"`
	AnswerTotal int64 `gorm:"column:answers_ttl" json:"answer_total"`
}

// Page is one slice of an ordered listing plus what is needed to
// render pagination controls.
type Page struct {
	Questions   []RankedQuestion `json:"questions"`
	Total       int              `json:"total"`
	PerPage     int              `json:"per_page"`
	CurrentPage int              `json:"current_page"`
	LastPage    int              `json:"last_page"`
}

// HasMore reports whether a later page exists.
func (p *Page) HasMore() bool {
	return p.CurrentPage < p.LastPage
}

// IDs lists the question ids on the page in order.
func (p *Page) IDs() []uint {
	ids := make([]uint, 0, len(p.Questions))
	for _, q := range p.Questions {
		ids = append(ids, q.ID)
	}
	return ids
}

func emptyPage(size, number int) *Page {
	size, number = normalizePage(size, number)
	return &Page{Questions: []RankedQuestion{}, PerPage: size, CurrentPage: number, LastPage: 1}
}

func normalizePage(size, number int) (int, int) {
	if size < 1 {
		size = DefaultPageSize
	}
	if number < 1 {
		number = 1
	}
	return size, number
}

// listing is a question query split into its stages: base carries the
// joins and filters, the rest only applies to the row query so that
// the total can be counted over the same joins.
type listing struct {
	base    *gorm.DB
	columns string
	grouped bool
	order   []string
}

func (db *Database) questions() *gorm.DB {
	return db.Table("questions")
}

// page counts the distinct questions matched by l.base and fetches the
// requested slice of rows.
func (l listing) page(size, number int) (*Page, error) {
	size, number = normalizePage(size, number)

	var total int
	if err := l.base.Select("count(distinct questions.id)").Count(&total).Error; err != nil {
		return nil, storeErr(err, "unable to count questions")
	}

	rows := l.base.Select(l.columns)
	if l.grouped {
		rows = rows.Group("questions.id")
	}
	for _, o := range l.order {
		rows = rows.Order(o)
	}

	found := []RankedQuestion{}
	if err := rows.Offset((number - 1) * size).Limit(size).Scan(&found).Error; err != nil {
		return nil, storeErr(err, "unable to list questions")
	}

	last := (total + size - 1) / size
	if last < 1 {
		last = 1
	}
	return &Page{Questions: found, Total: total, PerPage: size, CurrentPage: number, LastPage: last}, nil
}

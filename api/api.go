package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	db "github.com/grvlle/qanda/db"
	models "github.com/grvlle/qanda/model"
	"github.com/grvlle/qanda/slug"
)

// API serves the question and answer routes on top of the database.
type API struct {
	DB    *db.Database
	Pages db.Pagination
}

// New returns an API using the given page sizes.
func New(database *db.Database, pages db.Pagination) *API {
	return &API{DB: database, Pages: pages}
}

// QuestionURL is the canonical path of a question.
func QuestionURL(q *models.Question) string {
	s := slug.Slugify(q.Text)
	if s == "" {
		return fmt.Sprintf("/question/%d", q.ID)
	}
	return fmt.Sprintf("/question/%d/%s", q.ID, s)
}

type questionSummary struct {
	db.RankedQuestion
	URL        string `json:"url"`
	Answers    int    `json:"answer_count"`
	Unanswered bool   `json:"unanswered"`
}

type listingView struct {
	Title     string            `json:"title"`
	Sort      string            `json:"sort,omitempty"`
	Questions []questionSummary `json:"questions"`
	Total     int               `json:"total"`
	PerPage   int               `json:"per_page"`
	Page      int               `json:"current_page"`
	LastPage  int               `json:"last_page"`
}

type questionView struct {
	Question *models.Question  `json:"question"`
	URL      string            `json:"url"`
	Tags     []string          `json:"tags"`
	Answers  []models.Answer   `json:"answers"`
	Votes    int64             `json:"vote_total"`
	Related  []questionSummary `json:"related"`
}

type createQuestionRequest struct {
	UserID uint   `json:"user_id"`
	Tags   []uint `json:"tags"`
	Text   string `json:"question"`
	Level  int    `json:"level"`
}

type editQuestionRequest struct {
	Text string `json:"question"`
}

type answerRequest struct {
	UserID uint   `json:"user_id"`
	Text   string `json:"answer"`
}

type voteRequest struct {
	UserID uint `json:"user_id"`
	Vote   int  `json:"vote"`
}

// summarize attaches urls and answer counts to a page of questions.
func (a *API) summarize(page *db.Page) ([]questionSummary, error) {
	counts, err := a.DB.AnswerCounts(page.IDs())
	if err != nil {
		return nil, err
	}
	out := make([]questionSummary, 0, len(page.Questions))
	for _, q := range page.Questions {
		n := counts[q.ID]
		out = append(out, questionSummary{
			RankedQuestion: q,
			URL:            QuestionURL(&q.Question),
			Answers:        n,
			Unanswered:     n == 0,
		})
	}
	return out, nil
}

func (a *API) renderListing(w http.ResponseWriter, title, sort string, page *db.Page, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	summaries, err := a.summarize(page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listingView{
		Title:     title,
		Sort:      sort,
		Questions: summaries,
		Total:     page.Total,
		PerPage:   page.PerPage,
		Page:      page.CurrentPage,
		LastPage:  page.LastPage,
	})
}

// ShowQuestion renders a question with its tags, answers and related
// questions. A missing or stale slug segment redirects to the
// canonical url.
func (a *API) ShowQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(w, r)
	if !ok {
		return
	}
	q, err := a.DB.QuestionByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !slug.Matches(mux.Vars(r)["slug"], q.Text) {
		http.Redirect(w, r, QuestionURL(q), http.StatusMovedPermanently)
		return
	}

	tags, err := a.DB.QuestionTags(id)
	if err != nil {
		writeError(w, err)
		return
	}
	answers, err := a.DB.AnswersFor(id)
	if err != nil {
		writeError(w, err)
		return
	}
	votes, err := a.DB.VoteTotal(id)
	if err != nil {
		writeError(w, err)
		return
	}
	related, err := a.DB.TopRelevant(tags, id, a.Pages, 1)
	if err != nil {
		writeError(w, err)
		return
	}
	summaries, err := a.summarize(related)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questionView{
		Question: q,
		URL:      QuestionURL(q),
		Tags:     tags,
		Answers:  answers,
		Votes:    votes,
		Related:  summaries,
	})
}

// TopQuestions lists questions by vote total.
func (a *API) TopQuestions(w http.ResponseWriter, r *http.Request) {
	page, err := a.DB.TopQuestions(a.Pages.PageSize, pageParam(r))
	a.renderListing(w, "Top Questions", "top", page, err)
}

// NewestQuestions lists questions by creation time.
func (a *API) NewestQuestions(w http.ResponseWriter, r *http.Request) {
	page, err := a.DB.NewestQuestions(a.Pages.PageSize, pageParam(r))
	a.renderListing(w, "New Questions", "new", page, err)
}

// SearchQuestions matches the q parameter against questions, answers and tags.
func (a *API) SearchQuestions(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.URL.Query().Get("q"))
	if text == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{"missing search query"})
		return
	}
	page, err := a.DB.SearchQuestions(text, a.Pages.PageSize, pageParam(r))
	a.renderListing(w, "Search: "+text, "search", page, err)
}

// TaggedQuestions lists questions for a comma separated tag list using
// one of the answered, unanswered, recent or top orderings.
func (a *API) TaggedQuestions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	raw, err := url.PathUnescape(vars["tags"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{"Page Not Found"})
		return
	}
	tags := splitTags(raw)
	number := pageParam(r)

	var page *db.Page
	switch sort := vars["sort"]; sort {
	case "answered":
		page, err = a.DB.MostAnswered(tags, a.Pages.PageSize, number)
	case "unanswered":
		page, err = a.DB.Unanswered(tags, a.Pages.PageSize, number)
	case "recent":
		page, err = a.DB.RecentRelevant(tags, 0, a.Pages, number)
	case "top":
		page, err = a.DB.TopRelevant(tags, 0, a.Pages, number)
	default:
		writeJSON(w, http.StatusNotFound, errorBody{"unknown sort " + sort})
		return
	}
	a.renderListing(w, "Tagged: "+strings.Join(tags, ", "), vars["sort"], page, err)
}

// CreateQuestion stores a new question and points at its url.
func (a *API) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{"invalid request body"})
		return
	}
	q, err := a.DB.InsertQuestion(req.UserID, req.Tags, req.Text, req.Level)
	if err != nil {
		writeError(w, err)
		return
	}
	location := QuestionURL(q)
	w.Header().Set("Location", location)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"question": q, "url": location})
}

// EditQuestion returns what an edit form needs.
func (a *API) EditQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(w, r)
	if !ok {
		return
	}
	q, err := a.DB.QuestionByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	selected, err := a.DB.QuestionTags(id)
	if err != nil {
		writeError(w, err)
		return
	}
	all, err := a.DB.Tags()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"title":    "Edit Question",
		"question": q,
		"selected": selected,
		"tags":     all,
	})
}

// SaveQuestion replaces the text of a question.
func (a *API) SaveQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(w, r)
	if !ok {
		return
	}
	var req editQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{"invalid request body"})
		return
	}
	q, err := a.DB.UpdateQuestionText(id, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"question": q, "url": QuestionURL(q)})
}

// AddAnswer appends an answer to a question.
func (a *API) AddAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(w, r)
	if !ok {
		return
	}
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{"invalid request body"})
		return
	}
	answer, err := a.DB.InsertAnswer(req.UserID, id, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, answer)
}

// AddVote casts a vote on a question and returns the new total.
func (a *API) AddVote(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(w, r)
	if !ok {
		return
	}
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{"invalid request body"})
		return
	}
	if _, err := a.DB.CastVote(req.UserID, id, req.Vote); err != nil {
		writeError(w, err)
		return
	}
	total, err := a.DB.VoteTotal(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"question_id": id, "vote_total": total})
}

// GetTags lists all tags.
func (a *API) GetTags(w http.ResponseWriter, r *http.Request) {
	tags, err := a.DB.Tags()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// GetUser shows a user with their recent questions and answers.
func (a *API) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(w, r)
	if !ok {
		return
	}
	user, err := a.DB.UserByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := a.DB.QuestionsByUser(id, a.Pages.PageSize, pageParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	questions, err := a.summarize(page)
	if err != nil {
		writeError(w, err)
		return
	}
	answers, err := a.DB.AnswersByUser(id, a.Pages.PageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":      user,
		"questions": questions,
		"answers":   answers,
	})
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Unable to encode response")
	}
}

// writeError maps repository errors onto status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case db.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorBody{"Page Not Found"})
	case db.IsInvalid(err):
		writeJSON(w, http.StatusBadRequest, errorBody{err.Error()})
	default:
		log.Error().Err(err).Msg("Request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{"internal error"})
	}
}

func idVar(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		writeJSON(w, http.StatusNotFound, errorBody{"Page Not Found"})
		return 0, false
	}
	return uint(id), true
}

func pageParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

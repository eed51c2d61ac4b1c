package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/suite"

	db "github.com/grvlle/qanda/db"
	models "github.com/grvlle/qanda/model"
)

type APITestSuite struct {
	suite.Suite
	db       *db.Database
	router   *mux.Router
	user     *models.User
	goTag    *models.Tag
	question *models.Question
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (suite *APITestSuite) SetupTest() {
	database, err := db.InitializeDB(db.Options{Dialect: "sqlite3", DSN: ":memory:", MaxOpenConns: 1})
	suite.Require().NoError(err)
	suite.db = database
	suite.router = New(database, db.DefaultPagination()).SetupRoutes()

	suite.user, err = database.CreateUser("martin")
	suite.Require().NoError(err)
	suite.goTag, err = database.CreateTag("go")
	suite.Require().NoError(err)
	suite.question, err = database.InsertQuestion(suite.user.ID, []uint{suite.goTag.ID}, "How do I configure the Go module proxy?", 2)
	suite.Require().NoError(err)
}

func (suite *APITestSuite) TearDownTest() {
	suite.db.Close()
}

func (suite *APITestSuite) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

func (suite *APITestSuite) decode(rec *httptest.ResponseRecorder, v interface{}) {
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v))
}

func (suite *APITestSuite) TestShowQuestionRedirectsToCanonicalSlug() {
	canonical := "/question/1/i-configure-go-module-proxy"
	suite.Equal(canonical, QuestionURL(suite.question))

	for _, path := range []string{"/question/1", "/question/1/stale-slug"} {
		rec := suite.do("GET", path, nil)
		suite.Equal(http.StatusMovedPermanently, rec.Code, path)
		suite.Equal(canonical, rec.Header().Get("Location"), path)
	}
}

func (suite *APITestSuite) TestShowQuestionWithEncodedOctet() {
	q, err := suite.db.InsertQuestion(suite.user.ID, []uint{suite.goTag.ID}, "Encoded %20 space question here", 1)
	suite.Require().NoError(err)

	canonical := QuestionURL(q)
	suite.Equal("/question/2/encoded-%20-space-question-here", canonical)

	rec := suite.do("GET", canonical, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Empty(rec.Header().Get("Location"))

	rec = suite.do("GET", "/question/2/encoded-space-question-here", nil)
	suite.Equal(http.StatusMovedPermanently, rec.Code)
	suite.Equal(canonical, rec.Header().Get("Location"))
}

func (suite *APITestSuite) TestTaggedQuestionsEscapedTagList() {
	_, err := suite.db.CastVote(suite.user.ID, suite.question.ID, 1)
	suite.Require().NoError(err)

	rec := suite.do("GET", "/questions/tagged/go%2Cweb/top", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)

	var view struct {
		Questions []struct {
			ID uint `json:"id"`
		} `json:"questions"`
	}
	suite.decode(rec, &view)
	suite.Require().Len(view.Questions, 1)
	suite.Equal(suite.question.ID, view.Questions[0].ID)
}

func (suite *APITestSuite) TestShowQuestion() {
	_, err := suite.db.InsertAnswer(suite.user.ID, suite.question.ID, "Set GOPROXY.")
	suite.Require().NoError(err)
	_, err = suite.db.CastVote(suite.user.ID, suite.question.ID, 1)
	suite.Require().NoError(err)

	rec := suite.do("GET", QuestionURL(suite.question), nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.NotEmpty(rec.Header().Get(RequestIDHeader))

	var view struct {
		Question models.Question `json:"question"`
		Tags     []string        `json:"tags"`
		Answers  []models.Answer `json:"answers"`
		Votes    int64           `json:"vote_total"`
		Related  []interface{}   `json:"related"`
	}
	suite.decode(rec, &view)
	suite.Equal(suite.question.Text, view.Question.Text)
	suite.Equal([]string{"go"}, view.Tags)
	suite.Len(view.Answers, 1)
	suite.Equal(int64(1), view.Votes)
	suite.Empty(view.Related)
}

func (suite *APITestSuite) TestShowQuestionNotFound() {
	rec := suite.do("GET", "/question/999", nil)
	suite.Equal(http.StatusNotFound, rec.Code)
}

func (suite *APITestSuite) TestCreateQuestion() {
	rec := suite.do("POST", "/questions", map[string]interface{}{
		"user_id":  suite.user.ID,
		"tags":     []uint{suite.goTag.ID, suite.goTag.ID},
		"question": "Why are goroutines cheap?",
		"level":    1,
	})
	suite.Require().Equal(http.StatusCreated, rec.Code)
	suite.Equal("/question/2/why-goroutines-cheap", rec.Header().Get("Location"))

	names, err := suite.db.QuestionTags(2)
	suite.Require().NoError(err)
	suite.Equal([]string{"go"}, names)

	rec = suite.do("POST", "/questions", map[string]interface{}{
		"user_id":  suite.user.ID,
		"question": "No tags at all",
	})
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *APITestSuite) TestSaveQuestion() {
	rec := suite.do("POST", "/questions/1", map[string]string{"question": "Where does the module cache live?"})
	suite.Require().Equal(http.StatusOK, rec.Code)

	var body struct {
		URL string `json:"url"`
	}
	suite.decode(rec, &body)
	suite.Equal("/question/1/where-module-cache-live", body.URL)

	rec = suite.do("POST", "/questions/42", map[string]string{"question": "Missing"})
	suite.Equal(http.StatusNotFound, rec.Code)
}

func (suite *APITestSuite) TestEditQuestion() {
	rec := suite.do("GET", "/questions/1/edit", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)

	var body struct {
		Selected []string     `json:"selected"`
		Tags     []models.Tag `json:"tags"`
	}
	suite.decode(rec, &body)
	suite.Equal([]string{"go"}, body.Selected)
	suite.Len(body.Tags, 1)
}

func (suite *APITestSuite) TestListings() {
	_, err := suite.db.CastVote(suite.user.ID, suite.question.ID, 1)
	suite.Require().NoError(err)

	for _, path := range []string{
		"/questions/top",
		"/questions/new?page=1",
		"/questions/tagged/go/top",
		"/questions/tagged/go/recent",
		"/questions/tagged/go,web/unanswered",
	} {
		rec := suite.do("GET", path, nil)
		suite.Require().Equal(http.StatusOK, rec.Code, path)

		var view struct {
			Questions []struct {
				ID         uint   `json:"id"`
				URL        string `json:"url"`
				Unanswered bool   `json:"unanswered"`
			} `json:"questions"`
			Total   int `json:"total"`
			PerPage int `json:"per_page"`
		}
		suite.decode(rec, &view)
		suite.Require().Len(view.Questions, 1, path)
		suite.Equal(QuestionURL(suite.question), view.Questions[0].URL, path)
		suite.True(view.Questions[0].Unanswered, path)
		suite.Equal(10, view.PerPage, path)
	}

	rec := suite.do("GET", "/questions/tagged/go/answered", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)

	rec = suite.do("GET", "/questions/tagged/go/sideways", nil)
	suite.Equal(http.StatusNotFound, rec.Code)
}

func (suite *APITestSuite) TestSearch() {
	rec := suite.do("GET", "/questions/search", nil)
	suite.Equal(http.StatusBadRequest, rec.Code)

	rec = suite.do("GET", "/questions/search?q=proxy", nil)
	suite.Equal(http.StatusOK, rec.Code)
}

func (suite *APITestSuite) TestAnswerAndVote() {
	rec := suite.do("POST", "/question/1/answers", map[string]interface{}{"user_id": suite.user.ID, "answer": "Use GOPROXY."})
	suite.Require().Equal(http.StatusCreated, rec.Code)

	rec = suite.do("POST", "/question/1/answers", map[string]interface{}{"user_id": suite.user.ID, "answer": ""})
	suite.Equal(http.StatusBadRequest, rec.Code)

	rec = suite.do("POST", "/question/1/votes", map[string]interface{}{"user_id": suite.user.ID, "vote": -1})
	suite.Require().Equal(http.StatusCreated, rec.Code)
	var body struct {
		Total int64 `json:"vote_total"`
	}
	suite.decode(rec, &body)
	suite.Equal(int64(-1), body.Total)

	rec = suite.do("POST", "/question/1/votes", map[string]interface{}{"user_id": suite.user.ID, "vote": 5})
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *APITestSuite) TestTagsAndUser() {
	rec := suite.do("GET", "/tags", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	var tags []models.Tag
	suite.decode(rec, &tags)
	suite.Require().Len(tags, 1)
	suite.Equal("go", tags[0].Name)

	rec = suite.do("GET", "/users/1", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	var profile struct {
		User      models.User   `json:"user"`
		Questions []interface{} `json:"questions"`
	}
	suite.decode(rec, &profile)
	suite.Equal("martin", profile.User.Name)
	suite.Len(profile.Questions, 1)

	rec = suite.do("GET", "/users/7", nil)
	suite.Equal(http.StatusNotFound, rec.Code)
}

func TestSplitTags(t *testing.T) {
	got := splitTags(" go, ,sql ,")
	if len(got) != 2 || got[0] != "go" || got[1] != "sql" {
		t.Errorf("splitTags = %q, want [go sql]", got)
	}
}

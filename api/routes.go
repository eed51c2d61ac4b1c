package api

import "github.com/gorilla/mux"

// SetupRoutes registers every route of the API on a new router. Routes
// match the escaped path so a slug keeps its percent-encoded octets.
func (a *API) SetupRoutes() *mux.Router {
	router := mux.NewRouter().UseEncodedPath()
	router.Use(RequestLogger, Recoverer)

	router.HandleFunc("/question/{id:[0-9]+}", a.ShowQuestion).Methods("GET")
	router.HandleFunc("/question/{id:[0-9]+}/{slug}", a.ShowQuestion).Methods("GET")

	router.HandleFunc("/question/{id:[0-9]+}/answers", a.AddAnswer).
		Methods("POST").
		HeadersRegexp("Content-Type", "application/json")

	router.HandleFunc("/question/{id:[0-9]+}/votes", a.AddVote).
		Methods("POST").
		HeadersRegexp("Content-Type", "application/json")

	router.HandleFunc("/questions/top", a.TopQuestions).Methods("GET")
	router.HandleFunc("/questions/new", a.NewestQuestions).Methods("GET")
	router.HandleFunc("/questions/search", a.SearchQuestions).Methods("GET")
	router.HandleFunc("/questions/tagged/{tags}/{sort}", a.TaggedQuestions).Methods("GET")

	router.HandleFunc("/questions", a.CreateQuestion).
		Methods("POST").
		HeadersRegexp("Content-Type", "application/json")

	router.HandleFunc("/questions/{id:[0-9]+}/edit", a.EditQuestion).Methods("GET")

	router.HandleFunc("/questions/{id:[0-9]+}", a.SaveQuestion).
		Methods("POST").
		HeadersRegexp("Content-Type", "application/json")

	router.HandleFunc("/tags", a.GetTags).Methods("GET")
	router.HandleFunc("/users/{id:[0-9]+}", a.GetUser).Methods("GET")

	return router
}

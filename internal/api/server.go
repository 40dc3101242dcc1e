// Package api exposes the meal planner over HTTP/JSON.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"household-organizer/internal/calendar"
	"household-organizer/internal/metrics"
	"household-organizer/internal/planner"
	"household-organizer/internal/recipe"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Server routes HTTP requests to the meal plan store and recipe catalog.
type Server struct {
	store    *planner.Store
	catalog  *recipe.Catalog
	dataPath string
	router   *mux.Router
}

// NewServer builds the router. dataPath is reported in /health and may be empty.
func NewServer(store *planner.Store, catalog *recipe.Catalog, dataPath string) *Server {
	s := &Server{
		store:    store,
		catalog:  catalog,
		dataPath: dataPath,
		router:   mux.NewRouter(),
	}

	r := s.router
	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/recipes", s.listRecipes).Methods("GET")
	api.HandleFunc("/recipes/{id}", s.getRecipe).Methods("GET")
	api.HandleFunc("/meals", s.addMeal).Methods("POST")
	api.HandleFunc("/meals", s.mealsForDay).Methods("GET")
	api.HandleFunc("/meals/{id}", s.removeMeal).Methods("DELETE")
	api.HandleFunc("/week", s.getWeek).Methods("GET")
	api.HandleFunc("/week", s.setWeek).Methods("PUT")
	api.HandleFunc("/week/next", s.nextWeek).Methods("POST")
	api.HandleFunc("/week/previous", s.previousWeek).Methods("POST")
	api.HandleFunc("/week/meals", s.clearWeek).Methods("DELETE")
	api.HandleFunc("/groceries", s.groceries).Methods("GET")
	api.HandleFunc("/calendar/{year:[0-9]{4}}/{month:[0-9]{1,2}}", s.monthGrid).Methods("GET")

	return s
}

// Handler returns the router wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(loggingMiddleware(s.router))
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)
		log.Printf("%s %s -> %d (%v)", r.Method, r.URL.Path, wrapper.statusCode, time.Since(start))
	})
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

type addMealRequest struct {
	RecipeID string `json:"recipe_id"`
	Date     string `json:"date"`
	MealType string `json:"meal_type"`
}

type setWeekRequest struct {
	Start string `json:"start"`
}

type weekDay struct {
	Date  string                `json:"date"`
	Meals []planner.PlannedMeal `json:"meals"`
}

type weekResponse struct {
	WeekStart    string    `json:"week_start"`
	WeekStartsOn string    `json:"week_starts_on"`
	Days         []weekDay `json:"days"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Count(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics.Collect(s.dataPath, n, s.catalog.Len()))
}

func (s *Server) listRecipes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.List())
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, ok := s.catalog.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "recipe " + id + " not found"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) addMeal(w http.ResponseWriter, r *http.Request) {
	var req addMealRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	meal, err := s.store.AddMeal(r.Context(), req.RecipeID, req.Date, req.MealType)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, meal)
}

func (s *Server) mealsForDay(w http.ResponseWriter, r *http.Request) {
	meals, err := s.store.MealsForDay(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(meals))
}

func (s *Server) removeMeal(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveMeal(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getWeek(w http.ResponseWriter, r *http.Request) {
	s.writeWeek(w, r)
}

func (s *Server) setWeek(w http.ResponseWriter, r *http.Request) {
	var req setWeekRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	start, err := calendar.ParseDate(req.Start)
	if err != nil {
		s.writeError(w, &planner.InputError{Field: "start", Err: err})
		return
	}
	s.store.SetCurrentWeekStart(start)
	s.writeWeek(w, r)
}

func (s *Server) nextWeek(w http.ResponseWriter, r *http.Request) {
	s.store.NextWeek()
	s.writeWeek(w, r)
}

func (s *Server) previousWeek(w http.ResponseWriter, r *http.Request) {
	s.store.PreviousWeek()
	s.writeWeek(w, r)
}

func (s *Server) clearWeek(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.ClearWeek(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

func (s *Server) groceries(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.GenerateGroceryList(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) monthGrid(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	year, _ := strconv.Atoi(vars["year"])
	month, _ := strconv.Atoi(vars["month"])
	if month < 1 || month > 12 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "month must be between 1 and 12"})
		return
	}

	grid := calendar.MonthGrid(year, time.Month(month), s.store.WeekStartsOn())
	dates := make([]string, len(grid))
	for i, d := range grid {
		dates[i] = calendar.FormatDate(d)
	}
	writeJSON(w, http.StatusOK, dates)
}

func (s *Server) writeWeek(w http.ResponseWriter, r *http.Request) {
	start := s.store.CurrentWeekStart()
	meals, err := s.store.MealsForWeek(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	byDate := make(map[string][]planner.PlannedMeal)
	for _, m := range meals {
		byDate[m.Date] = append(byDate[m.Date], m)
	}

	resp := weekResponse{
		WeekStart:    calendar.FormatDate(start),
		WeekStartsOn: strings.ToLower(s.store.WeekStartsOn().String()),
	}
	for _, d := range calendar.WeekDays(start) {
		date := calendar.FormatDate(d)
		resp.Days = append(resp.Days, weekDay{Date: date, Meals: nonNil(byDate[date])})
	}
	writeJSON(w, http.StatusOK, resp)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var inErr *planner.InputError
	if errors.As(err, &inErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	log.Printf("Error handling request: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func decodeJSON(body io.Reader, v any) error {
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func nonNil(meals []planner.PlannedMeal) []planner.PlannedMeal {
	if meals == nil {
		return []planner.PlannedMeal{}
	}
	return meals
}

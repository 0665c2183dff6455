package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type record struct {
	ID                 uint     `json:"id"`
	City               string   `json:"city"`
	Country            string   `json:"country"`
	Temperature        *float64 `json:"temperature"`
	WeatherDescription *string  `json:"weather_description"`
	Username           string   `json:"username"`
}

func (s *IntegrationTestSuite) TestCompleteSearchWorkflow() {
	// Step 1: register
	alice := s.register("alice")

	// Step 2: authenticated lookups are recorded, failed ones are not
	w := s.request(http.MethodGet, "/api/weather?city=London", alice.Token, "")
	s.Require().Equal(http.StatusOK, w.Code)
	w = s.request(http.MethodGet, "/api/weather?city=Atlantis", alice.Token, "")
	s.Require().Equal(http.StatusNotFound, w.Code)

	// Step 3: explicit save
	w = s.request(http.MethodPost, "/api/save-search", alice.Token, `{"city":"Kyiv","country":"UA"}`)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	// Step 4: history, newest first
	w = s.request(http.MethodGet, "/api/search-history", alice.Token, "")
	s.Require().Equal(http.StatusOK, w.Code)
	var records []record
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &records))
	s.Require().Len(records, 2)
	s.Equal("Kyiv", records[0].City)
	s.Nil(records[0].Temperature)
	s.Equal("London", records[1].City)
	s.Equal("GB", records[1].Country)
	s.Require().NotNil(records[1].Temperature)
	s.InDelta(15.0, *records[1].Temperature, 0.001)
	s.Require().NotNil(records[1].WeatherDescription)
	s.Equal("partly cloudy", *records[1].WeatherDescription)
	s.Equal("alice", records[1].Username)

	// Step 5: detail is owner scoped
	bob := s.register("bob")
	path := fmt.Sprintf("/api/history/%d", records[1].ID)
	s.Equal(http.StatusOK, s.request(http.MethodGet, path, alice.Token, "").Code)
	s.Equal(http.StatusNotFound, s.request(http.MethodGet, path, bob.Token, "").Code)

	// Step 6: logout invalidates the token, login issues a new one
	s.Equal(http.StatusOK, s.request(http.MethodPost, "/api/auth/logout", alice.Token, "").Code)
	s.Equal(http.StatusUnauthorized, s.request(http.MethodGet, "/api/auth/user", alice.Token, "").Code)

	w = s.request(http.MethodPost, "/api/auth/login", "", `{"username":"alice","password":"pw-alice"}`)
	s.Require().Equal(http.StatusOK, w.Code)
	var relogin session
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &relogin))
	s.NotEqual(alice.Token, relogin.Token)

	// history survives logout
	w = s.request(http.MethodGet, "/api/history", relogin.Token, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &records))
	s.Len(records, 2)
}

func (s *IntegrationTestSuite) TestAnonymousLookupIsNotRecorded() {
	w := s.request(http.MethodGet, "/api/weather?city=London", "", "")
	s.Require().Equal(http.StatusOK, w.Code)

	var count int64
	s.Require().NoError(s.db.Table("search_history").Count(&count).Error)
	s.Zero(count)
}

func (s *IntegrationTestSuite) TestDeletingUserCascades() {
	alice := s.register("alice")
	s.Require().Equal(http.StatusOK, s.request(http.MethodGet, "/api/weather?city=London", alice.Token, "").Code)

	s.Require().NoError(s.db.Exec("DELETE FROM users WHERE id = ?", alice.User.ID).Error)

	var tokens, history int64
	s.Require().NoError(s.db.Table("auth_tokens").Count(&tokens).Error)
	s.Require().NoError(s.db.Table("search_history").Count(&history).Error)
	s.Zero(tokens)
	s.Zero(history)
}

func (s *IntegrationTestSuite) TestSuggestionsServedFromRedis() {
	for i := 0; i < 2; i++ {
		w := s.request(http.MethodGet, "/api/city-suggestions?q=Lon", "", "")
		s.Require().Equal(http.StatusOK, w.Code)
		s.JSONEq(`[
			{"name":"London","country":"GB","state":"England","display_name":"London, England, GB"},
			{"name":"Londrina","country":"BR","state":"","display_name":"Londrina, BR"}
		]`, w.Body.String())
	}

	s.Equal(int64(1), s.geocodeCalls.Load())
	s.True(s.redis.Exists("weatherlog:geocode:lon:5"))
}

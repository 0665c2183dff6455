package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

func (s *IntegrationTestSuite) TestConcurrentRegistrationSameUsername() {
	const attempts = 8

	codes := make([]int, attempts)
	messages := make([]string, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"username":"racer","email":"racer%d@example.com","password":"pw"}`, i)
			w := s.request(http.MethodPost, "/api/auth/register", "", body)
			codes[i] = w.Code

			var resp struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &resp)
			messages[i] = resp.Error
		}(i)
	}
	wg.Wait()

	created := 0
	for i, code := range codes {
		if code == http.StatusCreated {
			created++
			continue
		}
		s.Equal(http.StatusBadRequest, code)
		s.Equal("Username already exists", messages[i])
	}
	s.Equal(1, created)
}

func (s *IntegrationTestSuite) TestConcurrentLoginsConvergeOnOneToken() {
	alice := s.register("alice")
	s.Require().Equal(http.StatusOK, s.request(http.MethodPost, "/api/auth/logout", alice.Token, "").Code)

	const attempts = 8
	tokens := make([]string, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := s.request(http.MethodPost, "/api/auth/login", "", `{"username":"alice","password":"pw-alice"}`)
			if w.Code != http.StatusOK {
				return
			}
			var out session
			if json.Unmarshal(w.Body.Bytes(), &out) == nil {
				tokens[i] = out.Token
			}
		}(i)
	}
	wg.Wait()

	for _, token := range tokens {
		s.NotEmpty(token)
		s.Equal(tokens[0], token)
	}

	var count int64
	s.Require().NoError(s.db.Table("auth_tokens").Count(&count).Error)
	s.Equal(int64(1), count)
}

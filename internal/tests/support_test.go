// internal/tests/support_test.go
package tests

import (
	"net/http"
)

func (s *APITestSuite) TestTicketsAndModeration() {
	admin := s.admin()
	s.catalog(admin)
	author := s.register("author")
	reporter := s.register("reporter")
	item := s.createItem(author, "Better Lanterns", nil)

	w, env := s.do(http.MethodPost, "/v1/tickets", reporter, map[string]string{"subject": "Broken download", "body": "It 404s"})
	requireCode(s.T(), w, http.StatusCreated)
	var ticket struct {
		ID string `json:"id"`
	}
	s.decode(env, &ticket)

	w, _ = s.do(http.MethodGet, "/v1/tickets/"+ticket.ID, author, nil)
	requireCode(s.T(), w, http.StatusNotFound)
	w, _ = s.do(http.MethodPost, "/v1/tickets/"+ticket.ID+"/messages", admin, map[string]string{"body": "Fixed"})
	requireCode(s.T(), w, http.StatusCreated)
	w, _ = s.do(http.MethodPut, "/v1/admin/tickets/"+ticket.ID+"/status", admin, map[string]string{"status": "closed"})
	requireCode(s.T(), w, http.StatusOK)
	w, _ = s.do(http.MethodPost, "/v1/tickets/"+ticket.ID+"/messages", reporter, map[string]string{"body": "Thanks"})
	requireCode(s.T(), w, http.StatusBadRequest)

	w, env = s.do(http.MethodPost, "/v1/reports", reporter, map[string]string{"item_id": item.ID, "reason": "malware"})
	requireCode(s.T(), w, http.StatusCreated)
	var created struct {
		Report struct {
			ID string `json:"id"`
		} `json:"report"`
	}
	s.decode(env, &created)

	w, _ = s.do(http.MethodPut, "/v1/admin/reports/"+created.Report.ID+"/resolve", author, map[string]interface{}{"status": "resolved"})
	requireCode(s.T(), w, http.StatusForbidden)
	w, _ = s.do(http.MethodPut, "/v1/admin/reports/"+created.Report.ID+"/resolve", admin, map[string]interface{}{
		"status":    "resolved",
		"hide_item": true,
	})
	requireCode(s.T(), w, http.StatusOK)
	s.Zero(s.listItems("").Total)

	w, env = s.do(http.MethodPut, "/v1/notifications/read-all", reporter, nil)
	requireCode(s.T(), w, http.StatusOK)
	var marked struct {
		Updated int64 `json:"updated"`
	}
	s.decode(env, &marked)
	s.Equal(int64(2), marked.Updated, "ticket reply and report resolution")

	w, _ = s.do(http.MethodPost, "/v1/suggestions", "", map[string]string{"title": "Add Fallout", "body": "Please"})
	requireCode(s.T(), w, http.StatusCreated)

	w, env = s.do(http.MethodGet, "/v1/admin/stats", admin, nil)
	requireCode(s.T(), w, http.StatusOK)
	var dashboard struct {
		Stats struct {
			TotalUsers     int64 `json:"total_users"`
			NewSuggestions int64 `json:"new_suggestions"`
			PendingReports int64 `json:"pending_reports"`
		} `json:"stats"`
	}
	s.decode(env, &dashboard)
	s.Equal(int64(3), dashboard.Stats.TotalUsers)
	s.Equal(int64(1), dashboard.Stats.NewSuggestions)
	s.Zero(dashboard.Stats.PendingReports)
}

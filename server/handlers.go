package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/userpulse/userpulse/pkg/types"
	"github.com/userpulse/userpulse/query"
	"github.com/userpulse/userpulse/store"
	"github.com/userpulse/userpulse/user"
)

// userSelector identifies a user by one of its fields. Resolution order is
// fixed: id wins over username, username over email.
type userSelector struct {
	ID       *int64  `json:"id"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

func (r userSelector) predicate() (store.Predicate, bool) {
	switch {
	case r.ID != nil:
		return store.Where("id = ?", *r.ID), true
	case r.Username != nil && *r.Username != "":
		return store.Where("username = ?", *r.Username), true
	case r.Email != nil && *r.Email != "":
		return store.Where("email = ?", *r.Email), true
	}
	return store.Predicate{}, false
}

// Echo reflects the JSON body back to the caller.
func (s *Server) Echo(c *fiber.Ctx) error {
	payload := map[string]any{}
	if err := decodeBody(c, &payload); err != nil {
		return fail(c, fiber.StatusBadRequest, codeMissingField, err.Error())
	}
	return c.JSON(payload)
}

type addUserRequest struct {
	ID       *int64  `json:"id"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// AddUser handles PUT /user/add. The identifier is optional; when supplied
// it must be free or the insert is rejected as a duplicate.
func (s *Server) AddUser(c *fiber.Ctx) error {
	var req addUserRequest
	if err := decodeBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, codeMissingField, err.Error())
	}
	if req.Username == nil || *req.Username == "" || req.Email == nil || *req.Email == "" {
		return fail(c, fiber.StatusBadRequest, codeMissingField, "username and email are required")
	}
	u := &user.User{
		Username:         *req.Username,
		Email:            *req.Email,
		RegistrationDate: s.clock.Now(),
	}
	if req.ID != nil {
		u.ID = *req.ID
	}
	created, err := s.svc.Users.Create(c.Context(), u)
	if err != nil {
		if errors.Is(err, store.ErrIntegrity) {
			return fail(c, fiber.StatusConflict, codeDuplicate,
				"user with given id is already present in the table!")
		}
		return fail(c, fiber.StatusInternalServerError, codeNotFound, "storage failure")
	}
	return c.JSON(s.svc.Users.Map(created))
}

// GetUser handles GET /user/get: it resolves the user and annotates the
// response with the continued-activity probability.
func (s *Server) GetUser(c *fiber.Ctx) error {
	var req userSelector
	if err := decodeBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, codeMissingField, err.Error())
	}
	pred, ok := req.predicate()
	if !ok {
		return fail(c, fiber.StatusBadRequest, codeMissingField, "at least one field should be specified!")
	}
	u, err := s.svc.Users.First(c.Context(), pred)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, codeNotFound, "storage failure")
	}
	if u == nil {
		return fail(c, fiber.StatusNotFound, codeNotFound, "No such user!")
	}
	trend, err := s.svc.Queries().ActivityTrend.Query(c.Context(), query.ActivityTrendInput{UserID: u.ID})
	if err != nil {
		return failFromQuery(c, err)
	}
	resp := s.svc.Users.Map(u)
	resp["activity_prob"] = trend.Probability
	return c.JSON(resp)
}

type updateUserRequest struct {
	ID       *int64  `json:"id"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// UpdateUser handles POST /user/update: partial field updates matched by
// identifier.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	var req updateUserRequest
	if err := decodeBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, codeMissingField, err.Error())
	}
	if req.ID == nil {
		return fail(c, fiber.StatusBadRequest, codeMissingField, "id is required")
	}
	u, err := s.svc.Users.First(c.Context(), store.Where("id = ?", *req.ID))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, codeNotFound, "storage failure")
	}
	if u == nil {
		return fail(c, fiber.StatusNotFound, codeNotFound, "User has been deleted!")
	}
	if req.Username != nil && *req.Username != "" {
		u.Username = *req.Username
	}
	if req.Email != nil && *req.Email != "" {
		u.Email = *req.Email
	}
	updated, err := s.svc.Users.Update(c.Context(), u)
	if err != nil {
		if errors.Is(err, store.ErrIntegrity) {
			return fail(c, fiber.StatusConflict, codeDuplicate, "update rejected by constraint")
		}
		return fail(c, fiber.StatusInternalServerError, codeNotFound, "storage failure")
	}
	return c.JSON(s.svc.Users.Map(updated))
}

// DeleteUser handles DELETE /user/delete. Matching users and every activity
// they own are removed in one cascade.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	var req userSelector
	if err := decodeBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, codeMissingField, err.Error())
	}
	pred, ok := req.predicate()
	if !ok {
		return fail(c, fiber.StatusBadRequest, codeMissingField, "at least one field should be specified!")
	}
	removed, err := s.svc.Users.DeleteWhere(c.Context(), pred)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, codeNotFound, "storage failure")
	}
	if !removed {
		return fail(c, fiber.StatusNotFound, codeNotFound, "User has been deleted!")
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

type listUsersRequest struct {
	Page    *int `json:"page"`
	PerPage *int `json:"per_page"`
}

// AllUsers handles GET /user/all with page-indexed listing.
func (s *Server) AllUsers(c *fiber.Ctx) error {
	var req listUsersRequest
	if err := decodeBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, codeMissingField, err.Error())
	}
	p := types.Pagination{PerPage: store.DefaultPerPage}
	if req.Page != nil {
		p.Page = *req.Page
	}
	if req.PerPage != nil {
		p.PerPage = *req.PerPage
	}
	users, err := s.svc.Users.Paginate(c.Context(), p)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, codeNotFound, "storage failure")
	}
	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		out = append(out, s.svc.Users.Map(u))
	}
	return c.JSON(fiber.Map{"users": out})
}

type lastRegisteredRequest struct {
	LastNDays *int `json:"last_n_days"`
}

// LastRegistered handles GET /user/last_registered.
func (s *Server) LastRegistered(c *fiber.Ctx) error {
	var req lastRegisteredRequest
	if err := decodeBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, codeMissingField, err.Error())
	}
	input := query.RegistrationWindowInput{}
	if req.LastNDays != nil {
		input.LastDays = *req.LastNDays
	}
	count, err := s.svc.Queries().LastRegistered.Query(c.Context(), input)
	if err != nil {
		return failFromQuery(c, err)
	}
	return c.JSON(fiber.Map{"result": count})
}

type longestNamesRequest struct {
	TopN *int `json:"top_n"`
}

// LongestNames handles GET /user/longest_names.
func (s *Server) LongestNames(c *fiber.Ctx) error {
	var req longestNamesRequest
	if err := decodeBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, codeMissingField, err.Error())
	}
	input := query.LongestNamesInput{}
	if req.TopN != nil {
		input.TopN = *req.TopN
	}
	users, err := s.svc.Queries().LongestNames.Query(c.Context(), input)
	if err != nil {
		return failFromQuery(c, err)
	}
	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		out = append(out, s.svc.Users.Map(u))
	}
	return c.JSON(fiber.Map{"result": out})
}

type emailDomainRequest struct {
	Domain *string `json:"domain"`
}

// EmailDomain handles GET /user/email_domain.
func (s *Server) EmailDomain(c *fiber.Ctx) error {
	var req emailDomainRequest
	if err := decodeBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, codeMissingField, err.Error())
	}
	input := query.EmailDomainInput{}
	if req.Domain != nil {
		input.Suffix = *req.Domain
	}
	fraction, err := s.svc.Queries().EmailDomain.Query(c.Context(), input)
	if err != nil {
		return failFromQuery(c, err)
	}
	return c.JSON(fiber.Map{"result": fraction})
}

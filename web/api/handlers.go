package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/hochfrequenz/orgchart/internal/domain"
	"github.com/hochfrequenz/orgchart/internal/hierarchy"
	"github.com/hochfrequenz/orgchart/internal/render"
)

// EmployeeResponse is the API response for an employee
type EmployeeResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

// EntryResponse is one row of the rendered tree
type EntryResponse struct {
	Depth    int    `json:"depth"`
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

// StatusResponse is the API response for overall status
type StatusResponse struct {
	Employees int    `json:"employees"`
	Depth     int    `json:"depth"`
	RootID    *int   `json:"root_id"`
	Summary   string `json:"summary"`
}

// CreateCompanyRequest replaces the company with a single head
type CreateCompanyRequest struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

// AddEmployeeRequest adds an employee below ParentID
type AddEmployeeRequest struct {
	ParentID int    `json:"parent_id"`
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

// UpdateEmployeeRequest changes name and/or position. Omitted or empty
// fields are left unchanged.
type UpdateEmployeeRequest struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

// PositionRequest is the body of promote and demote
type PositionRequest struct {
	Position string `json:"position"`
}

func employeeToResponse(e domain.Employee) EmployeeResponse {
	return EmployeeResponse{ID: e.ID, Name: e.Name, Position: e.Position}
}

func employeesToResponse(es []domain.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, len(es))
	for i, e := range es {
		out[i] = employeeToResponse(e)
	}
	return out
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := domain.ParseID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeNotFound(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, hierarchy.ErrNotFound) {
		writeError(w, http.StatusNotFound, message)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) statusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := s.svc.Stats()
		resp := StatusResponse{
			Employees: st.Employees,
			Depth:     st.Depth,
			Summary:   render.Summary(st.Employees, st.Depth),
		}
		if st.Root != nil {
			id := st.Root.ID
			resp.RootID = &id
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) treeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := s.svc.Snapshot()
		resp := make([]EntryResponse, len(entries))
		for i, e := range entries {
			resp[i] = EntryResponse{
				Depth:    e.Depth,
				ID:       e.Employee.ID,
				Name:     e.Employee.Name,
				Position: e.Employee.Position,
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) createCompanyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateCompanyRequest
		if !decode(w, r, &req) {
			return
		}
		s.svc.Create(req.ID, req.Name, req.Position)
		writeJSON(w, http.StatusOK, EmployeeResponse(req))
	}
}

func (s *Server) findByPositionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !r.URL.Query().Has("position") {
			writeError(w, http.StatusBadRequest, "position query parameter is required")
			return
		}
		found := s.svc.FindAllByPosition(r.URL.Query().Get("position"))
		writeJSON(w, http.StatusOK, employeesToResponse(found))
	}
}

func (s *Server) addEmployeeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddEmployeeRequest
		if !decode(w, r, &req) {
			return
		}
		if err := s.svc.AddChild(req.ParentID, req.ID, req.Name, req.Position); err != nil {
			writeNotFound(w, err, "manager not found: "+strconv.Itoa(req.ParentID))
			return
		}
		writeJSON(w, http.StatusCreated, EmployeeResponse{ID: req.ID, Name: req.Name, Position: req.Position})
	}
}

func (s *Server) getEmployeeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		e, err := s.svc.FindByID(id)
		if err != nil {
			writeNotFound(w, err, "employee not found: "+strconv.Itoa(id))
			return
		}
		writeJSON(w, http.StatusOK, employeeToResponse(e))
	}
}

func (s *Server) reportsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		subs, err := s.svc.Subordinates(id)
		if err != nil {
			writeNotFound(w, err, "employee not found: "+strconv.Itoa(id))
			return
		}
		writeJSON(w, http.StatusOK, employeesToResponse(subs))
	}
}

func (s *Server) updateEmployeeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req UpdateEmployeeRequest
		if !decode(w, r, &req) {
			return
		}
		if err := s.svc.UpdateByID(id, req.Name, req.Position); err != nil {
			writeNotFound(w, err, "employee not found: "+strconv.Itoa(id))
			return
		}
		e, _ := s.svc.FindByID(id)
		writeJSON(w, http.StatusOK, employeeToResponse(e))
	}
}

func (s *Server) positionHandler(apply func(id int, position string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req PositionRequest
		if !decode(w, r, &req) {
			return
		}
		if err := apply(id, req.Position); err != nil {
			writeNotFound(w, err, "employee not found: "+strconv.Itoa(id))
			return
		}
		e, _ := s.svc.FindByID(id)
		writeJSON(w, http.StatusOK, employeeToResponse(e))
	}
}

func (s *Server) deleteEmployeeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := s.svc.DeleteByID(id); err != nil {
			writeNotFound(w, err, "employee not found or is the head of the company: "+strconv.Itoa(id))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

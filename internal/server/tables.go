package server

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"table-admin/internal/schema"
)

// createTableReq is the body of POST /api/tables.
type createTableReq struct {
	Instance  string   `json:"instance"`
	TableName string   `json:"tableName"`
	Columns   []string `json:"columns"`
}

// handleListTables handles GET /api/tables?instance=I and responds with one
// {name, columns} descriptor per table.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	const op = "list_tables"

	tables, err := s.manager.ListTables(r.Context(), r.URL.Query().Get("instance"))
	GetMetrics().RecordOperation(op, err)
	if err != nil {
		writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

// handleCreateTable handles POST /api/tables. The table always gets an
// auto-incrementing id primary key ahead of the requested columns.
func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	const op = "create_table"

	var req createTableReq
	if err := decodeBody(r, &req); err != nil {
		s.reject(w, r, op, schema.MsgCreateRequired)
		return
	}

	err := s.manager.CreateTable(r.Context(), req.Instance, req.TableName, req.Columns)
	GetMetrics().RecordOperation(op, err)
	if err != nil {
		writeError(w, r, op, err)
		return
	}
	writeMessage(w, "Table created successfully")
}

// handleDropTable handles DELETE /api/tables/{tableName}?instance=I. An empty
// name arrives through DELETE /api/tables/.
func (s *Server) handleDropTable(w http.ResponseWriter, r *http.Request) {
	const op = "drop_table"

	table, err := tableParam(r)
	if err != nil {
		s.reject(w, r, op, schema.MsgDropRequired)
		return
	}

	err = s.manager.DropTable(r.Context(), r.URL.Query().Get("instance"), table)
	GetMetrics().RecordOperation(op, err)
	if err != nil {
		writeError(w, r, op, err)
		return
	}
	writeMessage(w, "Table deleted successfully")
}

// tableParam returns the decoded {tableName} segment. chi matches on
// RawPath when the request set one, so the segment is still escaped then.
func tableParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "tableName")
	if r.URL.RawPath == "" {
		return name, nil
	}
	return url.PathUnescape(name)
}

// reject answers a request whose body could not be decoded.
func (s *Server) reject(w http.ResponseWriter, r *http.Request, op, msg string) {
	err := &schema.ValidationError{Message: msg}
	GetMetrics().RecordOperation(op, err)
	writeError(w, r, op, err)
}

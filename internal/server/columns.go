package server

import (
	"net/http"

	"table-admin/internal/schema"
)

// columnReq is the body of POST and DELETE /api/columns.
type columnReq struct {
	Instance   string `json:"instance"`
	TableName  string `json:"tableName"`
	ColumnName string `json:"columnName"`
}

// handleAddColumn handles POST /api/columns.
func (s *Server) handleAddColumn(w http.ResponseWriter, r *http.Request) {
	const op = "add_column"

	var req columnReq
	if err := decodeBody(r, &req); err != nil {
		s.reject(w, r, op, schema.MsgColumnRequired)
		return
	}

	err := s.manager.AddColumn(r.Context(), req.Instance, req.TableName, req.ColumnName)
	GetMetrics().RecordOperation(op, err)
	if err != nil {
		writeError(w, r, op, err)
		return
	}
	writeMessage(w, "Column added successfully")
}

// handleDropColumn handles DELETE /api/columns. The target is read from the
// request body, not the query string.
func (s *Server) handleDropColumn(w http.ResponseWriter, r *http.Request) {
	const op = "drop_column"

	var req columnReq
	if err := decodeBody(r, &req); err != nil {
		s.reject(w, r, op, schema.MsgColumnRequired)
		return
	}

	err := s.manager.DropColumn(r.Context(), req.Instance, req.TableName, req.ColumnName)
	GetMetrics().RecordOperation(op, err)
	if err != nil {
		writeError(w, r, op, err)
		return
	}
	writeMessage(w, "Column deleted successfully")
}

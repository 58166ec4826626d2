package handlers

import (
	"context"
	"net/http"
	"time"

	"ledger/internal/sqlinline"
)

var requiredTables = []string{"donations", "users"}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready checks the database connection and that the schema is in place.
func (a *App) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var one int
	if err := a.SQL.QueryRow(ctx, sqlinline.QPing).Scan(&one); err != nil {
		a.Logger.Warn().Err(err).Msg("readiness ping failed")
		a.json(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "error": "Database connection failed"})
		return
	}

	rows, err := a.SQL.Query(ctx, sqlinline.QSchemaTables, requiredTables)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("readiness schema check failed")
		a.json(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "error": "Schema check failed"})
		return
	}
	defer rows.Close()
	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			a.json(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "error": "Schema check failed"})
			return
		}
		tables = append(tables, name)
	}
	if rows.Err() != nil || len(tables) < len(requiredTables) {
		a.json(w, http.StatusServiceUnavailable, map[string]any{"status": "migrating", "tables": tables})
		return
	}
	a.json(w, http.StatusOK, map[string]any{"status": "ok", "tables": tables})
}

package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
)

// GameHandler - the live or archived record of a game.
func (that *handlers) GameHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "GameHandler")

	id := mux.Vars(r)["id"]

	record, err := that.games.GetGameRecord(r.Context(), id)
	if errors.Is(err, apperror.ErrNotFound) {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	if err != nil {
		log.Error("failed to get game record", "gameID", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, record)
}

// DeleteGameHandler - drops an archived game record.
func (that *handlers) DeleteGameHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "DeleteGameHandler")

	id := mux.Vars(r)["id"]

	err := that.games.DeleteGameRecord(r.Context(), id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, apperror.ErrNotFound):
		http.Error(w, "game not found", http.StatusNotFound)
	case errors.Is(err, apperror.ErrGameRunning):
		http.Error(w, "game is still running", http.StatusConflict)
	default:
		log.Error("failed to delete game record", "gameID", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (that *handlers) StatsHandler(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, that.games.Stats())
}

func (that *handlers) writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

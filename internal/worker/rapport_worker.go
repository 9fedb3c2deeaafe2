package worker

import (
	"context"
	"encoding/json"

	"github.com/arliBukasa/pos-caisse/internal/infra"
	"github.com/arliBukasa/pos-caisse/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RapportPayload is the job envelope sent to QueueRapport.
type RapportPayload struct {
	SessionID string `json:"session_id"`
}

// RapportWorker renders session sales reports off the request path. Report
// generation never blocks or fails a core transaction; a failed job is just
// logged and the endpoint can be hit again.
type RapportWorker struct {
	sessionRepo  repository.SessionRepository
	commandeRepo repository.CommandeRepository
	storagePath  string
}

func NewRapportWorker(sessionRepo repository.SessionRepository, commandeRepo repository.CommandeRepository, storagePath string) *RapportWorker {
	return &RapportWorker{
		sessionRepo:  sessionRepo,
		commandeRepo: commandeRepo,
		storagePath:  storagePath,
	}
}

func (w *RapportWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload RapportPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("rapport_worker: invalid payload")
		return
	}

	sessionID, err := uuid.Parse(payload.SessionID)
	if err != nil {
		log.Error().Str("session_id", payload.SessionID).Msg("rapport_worker: invalid session_id")
		return
	}

	session, err := w.sessionRepo.FindWithChildren(ctx, sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", payload.SessionID).Msg("rapport_worker: session not found")
		return
	}

	commandes, _, err := w.commandeRepo.List(ctx, repository.CommandeFilter{
		SessionID: &sessionID,
		Page:      1,
		Limit:     10000,
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", payload.SessionID).Msg("rapport_worker: load commandes")
		return
	}

	path, err := infra.GenerateRapportPDF(session, commandes, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("session_id", payload.SessionID).Msg("rapport_worker: PDF generation failed")
		return
	}
	log.Info().Str("pdf", path).Str("session_id", payload.SessionID).Msg("rapport_worker: rapport generated")
}

package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/roundtable-service/internal/api"
	"github.com/s21platform/roundtable-service/internal/config"
	"github.com/s21platform/roundtable-service/internal/model"
	"github.com/s21platform/roundtable-service/internal/round"
)

type Handler struct {
	threads      Threads
	repository   DBRepo
	validator    Validator
	jwtGenerator JWTGenerator
}

func New(
	threads Threads,
	repo DBRepo,
	validator Validator,
	jwtGenerator JWTGenerator,
) *Handler {
	return &Handler{
		threads:      threads,
		repository:   repo,
		validator:    validator,
		jwtGenerator: jwtGenerator,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/threads", h.CreateThread)
	r.Post("/timeouts", h.CheckTimeouts)
	r.Get("/connect-token", h.GetConnectAccessToken)

	r.Route("/threads/{threadId}", func(r chi.Router) {
		r.Post("/hydrate", h.HydrateThread)
		r.Get("/state", h.GetThreadState)
		r.Patch("/", h.UpdateThread)
		r.Delete("/", h.ReleaseThread)
		r.Get("/subscribe-token", h.GetThreadSubscribeToken)

		r.Post("/messages", h.SetMessages)
		r.Post("/deltas", h.ApplyDelta)
		r.Post("/streaming/complete", h.CompleteStreaming)
		r.Post("/streaming/stop", h.StopStreaming)

		r.Post("/rounds", h.PrepareMessage)
		r.Post("/rounds/start", h.StartRound)
		r.Post("/rounds/resume", h.ResumeRound)
		r.Post("/rounds/regenerate", h.Regenerate)
		r.Put("/rounds/{round}/pre-search", h.UpdatePreSearch)
		r.Put("/rounds/{round}/analysis", h.UpdateAnalysis)

		r.Put("/participants", h.SetParticipants)
		r.Put("/participants/order", h.ReorderParticipants)
		r.Delete("/participants/{participantId}", h.RemoveParticipant)
		r.Post("/config-change", h.RequestConfigChange)
		r.Post("/config-change/merged", h.MergeChangelog)
	})
}

func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("CreateThread")

	var req api.CreateThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Thread.Id == "" {
		logger.Error("thread id is required")
		h.writeError(w, "thread id is required", http.StatusBadRequest)
		return
	}

	if err := h.validator.ValidateParticipants(&api.SetParticipantsRequest{Participants: req.Participants}); err != nil {
		logger.Error(fmt.Sprintf("participants validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("participants validation failed: %v", err), http.StatusBadRequest)
		return
	}

	store := h.threads.Store(req.Thread.Id)
	if err := store.BeginThreadCreation(); err != nil {
		h.writeStoreError(w, logger, "failed to create thread", err)
		return
	}

	err := store.CompleteThreadCreation(toModelThread(req.Thread), toModelParticipants(req.Participants))
	if err != nil {
		store.FailThreadCreation(err.Error())
		h.writeStoreError(w, logger, "failed to create thread", err)
		return
	}

	h.writeState(w, store, http.StatusCreated)
}

func (h *Handler) HydrateThread(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("HydrateThread")

	threadID := chi.URLParam(r, "threadId")

	hydration, err := h.repository.LoadThread(r.Context(), threadID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to load thread %s: %v", threadID, err))
		h.writeError(w, fmt.Sprintf("failed to load thread: %v", err), http.StatusInternalServerError)
		return
	}

	store := h.threads.Store(threadID)
	if err := store.Initialize(*hydration); err != nil {
		h.writeStoreError(w, logger, "failed to initialize thread", err)
		return
	}

	h.writeState(w, store, http.StatusOK)
}

func (h *Handler) GetThreadState(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetThreadState")

	store, ok := h.liveStore(w, r, logger)
	if !ok {
		return
	}

	h.writeState(w, store, http.StatusOK)
}

func (h *Handler) UpdateThread(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("UpdateThread")

	store, ok := h.liveStore(w, r, logger)
	if !ok {
		return
	}

	var req api.UpdateThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := store.UpdateThread(model.Thread{Slug: req.Slug, Title: req.Title, Mode: req.Mode}); err != nil {
		h.writeStoreError(w, logger, "failed to update thread", err)
		return
	}

	h.writeState(w, store, http.StatusOK)
}

func (h *Handler) ReleaseThread(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("ReleaseThread")

	h.threads.Release(chi.URLParam(r, "threadId"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetConnectAccessToken(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetConnectAccessToken")

	userUUID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user UUID")
		h.writeError(w, "failed to get user UUID", http.StatusInternalServerError)
		return
	}

	token, expiresAt, err := h.jwtGenerator.GenerateConnectToken(userUUID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to generate access token: %v", err))
		h.writeError(w, fmt.Sprintf("failed to generate access token: %v", err), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, api.GetConnectAccessTokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}, http.StatusOK)
}

func (h *Handler) GetThreadSubscribeToken(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetThreadSubscribeToken")

	threadID := chi.URLParam(r, "threadId")

	userUUID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user UUID")
		h.writeError(w, "failed to get user UUID", http.StatusInternalServerError)
		return
	}

	if _, ok := h.threads.Lookup(threadID); !ok {
		logger.Error(fmt.Sprintf("thread %s is not loaded", threadID))
		h.writeError(w, "thread is not loaded", http.StatusNotFound)
		return
	}

	token, expiresAt, err := h.jwtGenerator.GenerateSubscribeToken(userUUID, threadID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to generate subscribe token: %v", err))
		h.writeError(w, fmt.Sprintf("failed to generate subscribe token: %v", err), http.StatusInternalServerError)
		return
	}

	logger.Info(fmt.Sprintf("generated subscribe token for user %s, thread %s", userUUID, threadID))

	h.writeJSON(w, api.GetThreadSubscribeTokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Channel:   model.RoundChannel(threadID),
	}, http.StatusOK)
}

func (h *Handler) SetMessages(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("SetMessages")

	store, ok := h.liveStore(w, r, logger)
	if !ok {
		return
	}

	var req api.SetMessagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	threadID := chi.URLParam(r, "threadId")
	batch := make([]model.Message, len(req.Messages))
	for i, m := range req.Messages {
		batch[i] = toModelMessage(threadID, m)
	}
	store.SetMessages(batch)

	h.writeState(w, store, http.StatusOK)
}

func (h *Handler) ApplyDelta(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("ApplyDelta")

	store, ok := h.liveStore(w, r, logger)
	if !ok {
		return
	}

	var req api.StreamDeltaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.ValidateStreamDelta(&req); err != nil {
		logger.Error(fmt.Sprintf("delta validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("delta validation failed: %v", err), http.StatusBadRequest)
		return
	}

	store.ApplyDelta(toStreamDelta(req))
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) CompleteStreaming(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("CompleteStreaming")

	store, ok := h.liveStore(w, r, logger)
	if !ok {
		return
	}

	store.CompleteStreaming()
	h.writeState(w, store, http.StatusOK)
}

func (h *Handler) StopStreaming(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("StopStreaming")

	store, ok := h.liveStore(w, r, logger)
	if !ok {
		return
	}

	store.StopStreaming()
	h.writeState(w, store, http.StatusOK)
}

func (h *Handler) PrepareMessage(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("PrepareMessage")

	store, ok := h.liveStore(w, r, logger)
	if !ok {
		return
	}

	var req api.PrepareMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.ValidatePrepareMessage(&req); err != nil {
		logger.Error(fmt.Sprintf("message validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("message validation failed: %v", err), http.StatusBadRequest)
		return
	}

	prepared, err := store.PrepareForNewMessage(req.Content, req.Files)
	if err != nil {
		h.writeStoreError(w, logger, "failed to prepare message", err)
		return
	}

	status := http.StatusCreated
	if prepared.Queued {
		status = http.StatusAccepted
	}

	h.writeJSON(w, api.PrepareMessageResponse{
		RoundNumber: prepared.Round,
		MessageId:   prepared.MessageID,
		Queued:      prepared.Queued,
	}, status)
}

func (h *Handler) StartRound(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("StartRound")

	store, ok := h.liveStore(w, r, logger)
	if !ok {
		return
	}

	var req api.StartRoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := store.StartRound(req.RoundNumber); err != nil {
		h.writeStoreError(w, logger, "failed to start round", err)
		return
	}

	h.writeState(w, store, http.StatusOK)
}

func (h *Handler) ResumeRound(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("ResumeRound")

	store, ok := h.liveStore(w, r, logger)
	if !ok {
		return
	}

	d := store.ResumeIncompleteRound()

	status := http.StatusOK
	if d.Status.Blocked() {
		status = http.StatusConflict
	}

	h.writeJSON(w, api.ResumeResponse{
		Status:                  string(d.Status),
		RoundNumber:             d.Round,
		NextParticipant:         d.NextParticipant,
		IncompleteRounds:        d.IncompleteRounds,
		CanStartParticipantTurn: d.CanStartParticipantTurn,
	}, status)
}

func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("Regenerate")

	store, ok := h.liveStore(w, r, logger)
	if !ok {
		return
	}

	n, err := store.Regenerate()
	if err != nil {
		h.writeStoreError(w, logger, "failed to regenerate round", err)
		return
	}

	h.writeJSON(w, api.RegenerateResponse{RoundNumber: n}, http.StatusOK)
}

func (h *Handler) UpdatePreSearch(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("UpdatePreSearch")

	store, n, req, ok := h.statusRequest(w, r, logger)
	if !ok {
		return
	}

	store.UpdatePreSearchStatus(n, toStatusUpdate(req))
	h.writeState(w, store, http.StatusOK)
}

func (h *Handler) UpdateAnalysis(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("UpdateAnalysis")

	store, n, req, ok := h.statusRequest(w, r, logger)
	if !ok {
		return
	}

	store.UpdateAnalysisStatus(n, toStatusUpdate(req))
	h.writeState(w, store, http.StatusOK)
}

func (h *Handler) SetParticipants(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("SetParticipants")

	store, ok := h.liveStore(w, r, logger)
	if !ok {
		return
	}

	var req api.SetParticipantsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.ValidateParticipants(&req); err != nil {
		logger.Error(fmt.Sprintf("participants validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("participants validation failed: %v", err), http.StatusBadRequest)
		return
	}

	store.SetParticipants(toModelParticipants(req.Participants))
	h.writeState(w, store, http.StatusOK)
}

func (h *Handler) ReorderParticipants(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("ReorderParticipants")

	store, ok := h.liveStore(w, r, logger)
	if !ok {
		return
	}

	var req api.ReorderParticipantsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := store.ReorderParticipants(req.Ids); err != nil {
		h.writeStoreError(w, logger, "failed to reorder participants", err)
		return
	}

	h.writeState(w, store, http.StatusOK)
}

func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("RemoveParticipant")

	store, ok := h.liveStore(w, r, logger)
	if !ok {
		return
	}

	if err := store.RemoveParticipant(chi.URLParam(r, "participantId")); err != nil {
		h.writeStoreError(w, logger, "failed to remove participant", err)
		return
	}

	h.writeState(w, store, http.StatusOK)
}

func (h *Handler) RequestConfigChange(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("RequestConfigChange")

	store, ok := h.liveStore(w, r, logger)
	if !ok {
		return
	}

	store.RequestConfigChange()
	h.writeState(w, store, http.StatusOK)
}

func (h *Handler) MergeChangelog(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("MergeChangelog")

	store, ok := h.liveStore(w, r, logger)
	if !ok {
		return
	}

	var req api.MergeChangelogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var participants []model.Participant
	if req.Participants != nil {
		participants = toModelParticipants(req.Participants)
	}
	store.MergeChangelog(participants)

	h.writeState(w, store, http.StatusOK)
}

func (h *Handler) CheckTimeouts(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("CheckTimeouts")

	fired := h.threads.CheckTimeouts()
	h.writeJSON(w, api.TimeoutsResponse{Fired: fired}, http.StatusOK)
}

// ----------------------------- helpers -----------------------------

func (h *Handler) liveStore(w http.ResponseWriter, r *http.Request, logger logger_lib.LoggerInterface) (*round.Store, bool) {
	threadID := chi.URLParam(r, "threadId")
	store, ok := h.threads.Lookup(threadID)
	if !ok {
		logger.Error(fmt.Sprintf("thread %s is not loaded", threadID))
		h.writeError(w, fmt.Sprintf("thread %s is not loaded", threadID), http.StatusNotFound)
		return nil, false
	}
	return store, true
}

func (h *Handler) statusRequest(w http.ResponseWriter, r *http.Request, logger logger_lib.LoggerInterface) (*round.Store, int, api.StatusUpdateRequest, bool) {
	var req api.StatusUpdateRequest

	store, ok := h.liveStore(w, r, logger)
	if !ok {
		return nil, 0, req, false
	}

	n, err := strconv.Atoi(chi.URLParam(r, "round"))
	if err != nil || n < 0 {
		logger.Error(fmt.Sprintf("invalid round number %q", chi.URLParam(r, "round")))
		h.writeError(w, "invalid round number", http.StatusBadRequest)
		return nil, 0, req, false
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return nil, 0, req, false
	}

	if err := h.validator.ValidateStatusUpdate(&req); err != nil {
		logger.Error(fmt.Sprintf("status validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("status validation failed: %v", err), http.StatusBadRequest)
		return nil, 0, req, false
	}

	return store, n, req, true
}

func (h *Handler) writeState(w http.ResponseWriter, store *round.Store, statusCode int) {
	h.writeJSON(w, toThreadState(store.Snapshot(), store.Readiness()), statusCode)
}

// writeStoreError maps guarded rejections to 409 and an unknown participant
// to 404; anything else is a bad request.
func (h *Handler) writeStoreError(w http.ResponseWriter, logger logger_lib.LoggerInterface, message string, err error) {
	statusCode := http.StatusBadRequest
	if round.IsRejection(err) {
		statusCode = http.StatusConflict
	}
	if errors.Is(err, round.ErrUnknownParticipant) {
		statusCode = http.StatusNotFound
	}
	logger.Error(fmt.Sprintf("%s: %v", message, err))
	h.writeError(w, fmt.Sprintf("%s: %v", message, err), statusCode)
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(api.Error{Error: message})
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/phoenixchat/phoenix/internal/domain"
	"github.com/phoenixchat/phoenix/internal/service"
	"github.com/phoenixchat/phoenix/internal/transport/http/middleware"
	"github.com/phoenixchat/phoenix/pkg/validator"
)

type BotHandler struct {
	botService *service.BotService
}

func NewBotHandler(botService *service.BotService) *BotHandler {
	return &BotHandler{botService: botService}
}

func (h *BotHandler) List(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.ViewerID(r.Context())
	publicOnly := r.URL.Query().Get("public") != "false"

	bots, err := h.botService.List(r.Context(), viewerID, publicOnly)
	if err != nil {
		logrus.WithError(err).Error("list bots")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Failed to fetch bots")
		return
	}

	if bots == nil {
		bots = []domain.Bot{}
	}

	writeJSON(w, http.StatusOK, bots)
}

func (h *BotHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := botID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid bot id")
		return
	}

	bot, err := h.botService.Get(r.Context(), id, middleware.ViewerID(r.Context()))
	if err != nil {
		if errors.Is(err, service.ErrBotNotFound) {
			writeError(w, http.StatusNotFound, "BOT_NOT_FOUND", "Bot not found")
		} else {
			logrus.WithError(err).Error("get bot")
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Failed to fetch bot")
		}
		return
	}

	writeJSON(w, http.StatusOK, bot)
}

func (h *BotHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r.Context())

	var input service.CreateBotInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateBot(input.Name); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	bot, err := h.botService.Create(r.Context(), ownerID, input)
	if err != nil {
		logrus.WithError(err).Error("create bot")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Failed to create bot")
		return
	}

	writeJSON(w, http.StatusCreated, bot)
}

func (h *BotHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r.Context())
	id, err := botID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid bot id")
		return
	}

	var input service.UpdateBotInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if input.Name != nil {
		if errs := validator.ValidateBot(*input.Name); errs.HasErrors() {
			writeValidationErrors(w, errs)
			return
		}
	}

	bot, err := h.botService.Update(r.Context(), id, ownerID, input)
	if err != nil {
		if errors.Is(err, service.ErrBotNotFound) {
			writeError(w, http.StatusNotFound, "BOT_NOT_FOUND", "Bot not found")
		} else {
			logrus.WithError(err).Error("update bot")
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Failed to update bot")
		}
		return
	}

	writeJSON(w, http.StatusOK, bot)
}

func (h *BotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r.Context())
	id, err := botID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid bot id")
		return
	}

	if err := h.botService.Delete(r.Context(), id, ownerID); err != nil {
		if errors.Is(err, service.ErrBotNotFound) {
			writeError(w, http.StatusNotFound, "BOT_NOT_FOUND", "Bot not found")
		} else {
			logrus.WithError(err).Error("delete bot")
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Failed to delete bot")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *BotHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetUserID(r.Context())
	id, err := botID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid bot id")
		return
	}

	liked, err := h.botService.ToggleLike(r.Context(), viewerID, id)
	if err != nil {
		if errors.Is(err, service.ErrBotNotFound) {
			writeError(w, http.StatusNotFound, "BOT_NOT_FOUND", "Bot not found")
		} else {
			logrus.WithError(err).Error("toggle like")
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Failed to toggle like")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

func (h *BotHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetUserID(r.Context())
	id, err := botID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid bot id")
		return
	}

	messages, err := h.botService.ListMessages(r.Context(), viewerID, id)
	if err != nil {
		if errors.Is(err, service.ErrBotNotFound) {
			writeError(w, http.StatusNotFound, "BOT_NOT_FOUND", "Bot not found")
		} else {
			logrus.WithError(err).Error("list messages")
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Failed to fetch messages")
		}
		return
	}

	if messages == nil {
		messages = []domain.Message{}
	}

	writeJSON(w, http.StatusOK, messages)
}

func (h *BotHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetUserID(r.Context())
	id, err := botID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid bot id")
		return
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	pair, err := h.botService.SendMessage(r.Context(), viewerID, id, input.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			writeError(w, http.StatusBadRequest, "EMPTY_MESSAGE", "Message content required")
		case errors.Is(err, service.ErrBotNotFound):
			writeError(w, http.StatusNotFound, "BOT_NOT_FOUND", "Bot not found")
		default:
			logrus.WithError(err).Error("send message")
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Failed to send message")
		}
		return
	}

	writeJSON(w, http.StatusCreated, pair)
}

func botID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "id")), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid bot id")
	}
	return id, nil
}

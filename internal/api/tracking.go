package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/errors"
	"github.com/vladimiradmaev/fitscan-coach/internal/nutrition"
	"github.com/vladimiradmaev/fitscan-coach/internal/services"
	"github.com/vladimiradmaev/fitscan-coach/internal/session"
)

func newID() string { return uuid.NewString() }

type dashboardResponse struct {
	nutrition.DashboardSummary
	FoodLog []domain.FoodLogEntry `json:"foodLog"`
	View    domain.View           `json:"view"`
}

func (h *Handler) Dashboard(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	state := h.deps.Sessions.Dispatch(user.ID, session.Navigated{View: domain.ViewDashboard})
	log := state.FoodLog
	if log == nil {
		log = []domain.FoodLogEntry{}
	}
	c.JSON(http.StatusOK, dashboardResponse{
		DashboardSummary: nutrition.Summarize(state.FoodLog, state.Activity, user.Stats),
		FoodLog:          log,
		View:             state.View,
	})
}

type toggleRequest struct {
	Source string `json:"source" binding:"required"`
}

// ToggleDevice connects a wearable, or disconnects it when already connected.
func (h *Handler) ToggleDevice(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidBody(err))
		return
	}
	source, ok := domain.ParseDeviceSource(req.Source)
	if !ok {
		respondError(c, errors.NewValidationError("Dispositivo desconhecido: "+req.Source))
		return
	}

	state := h.deps.Sessions.Dispatch(user.ID, session.DeviceToggled{Source: source})
	c.JSON(http.StatusOK, state.Activity)
}

type recipeRequest struct {
	Ingredients string `json:"ingredients"`
	Goal        string `json:"goal"`
}

func (h *Handler) GenerateRecipe(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidBody(err))
		return
	}

	recipe, err := h.deps.RecipeSvc.Generate(c.Request.Context(), req.Ingredients, req.Goal)
	if err != nil {
		respondError(c, err)
		return
	}
	h.deps.Sessions.Dispatch(user.ID, session.RecipeGenerated{Recipe: recipe})
	c.JSON(http.StatusOK, recipe)
}

type chatResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
}

// ChatHistory returns the greeting followed by the session transcript.
func (h *Handler) ChatHistory(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	state := h.deps.Sessions.Dispatch(user.ID, session.Navigated{View: domain.ViewChat})
	messages := append([]domain.ChatMessage{services.Greeting()}, state.Transcript...)
	c.JSON(http.StatusOK, chatResponse{Messages: messages})
}

type chatRequest struct {
	Message string `json:"message"`
}

// SendChat returns the user message and the coach reply that were appended.
func (h *Handler) SendChat(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidBody(err))
		return
	}

	var added []domain.ChatMessage
	_, err := h.deps.Sessions.Do(user.ID, func(s session.AppState) ([]session.Action, error) {
		msgs, err := h.deps.CoachSvc.Reply(c.Request.Context(), s.Transcript, req.Message)
		if err != nil {
			return nil, err
		}
		added = msgs
		return []session.Action{session.ChatAppended{Messages: msgs}}, nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chatResponse{Messages: added})
}

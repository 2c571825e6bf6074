package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/errors"
	"github.com/vladimiradmaev/fitscan-coach/internal/interfaces"
	"github.com/vladimiradmaev/fitscan-coach/internal/metrics"
	"github.com/vladimiradmaev/fitscan-coach/internal/nutrition"
	"github.com/vladimiradmaev/fitscan-coach/internal/session"
)

// Dependencies holds what the HTTP handlers need.
type Dependencies struct {
	UserService     interfaces.UserServiceInterface
	FoodAnalysisSvc interfaces.FoodAnalysisServiceInterface
	RecipeSvc       interfaces.RecipeServiceInterface
	CoachSvc        interfaces.CoachServiceInterface
	Sessions        *session.Store
	Tokens          *TokenIssuer
	Metrics         metrics.Provider
	Now             func() time.Time
}

type Handler struct {
	deps Dependencies
}

func NewHandler(deps Dependencies) *Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Handler{deps: deps}
}

type loginRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

// Login registers a new user and opens a session for it.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewValidationError("Informe seu nome."))
		return
	}

	user, err := h.deps.UserService.Login(c.Request.Context(), "", req.Name, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	token, err := h.deps.Tokens.Issue(user.ID)
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	state := h.deps.Sessions.Dispatch(user.ID, session.LoggedIn{User: user})
	c.JSON(http.StatusOK, gin.H{"token": token, "user": state.User, "view": state.View})
}

// Logout deletes the profile and resets the session.
func (h *Handler) Logout(c *gin.Context) {
	userID, _ := currentUserID(c)
	if err := h.deps.UserService.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	h.deps.Sessions.Dispatch(userID, session.LoggedOut{})
	h.deps.Sessions.Forget(userID)
	c.Status(http.StatusNoContent)
}

// currentUser loads the caller's profile and syncs it into the session.
func (h *Handler) currentUser(c *gin.Context) (*domain.User, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, errors.ErrUnauthorized)
		return nil, false
	}
	user, err := h.deps.UserService.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, errors.ErrUserNotFound) {
			err = errors.ErrUnauthorized
		}
		respondError(c, err)
		return nil, false
	}
	if h.deps.Sessions.Snapshot(userID).User == nil {
		h.deps.Sessions.Dispatch(userID, session.LoggedIn{User: user})
	} else {
		h.deps.Sessions.Dispatch(userID, session.ProfileUpdated{User: user})
	}
	return user, true
}

type profileResponse struct {
	User      *domain.User `json:"user"`
	DailyGoal int          `json:"dailyGoal"`
}

func newProfileResponse(user *domain.User) profileResponse {
	return profileResponse{User: user, DailyGoal: nutrition.DailyCalorieGoal(user.Stats)}
}

func (h *Handler) GetProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(user))
}

type renameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) Rename(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidBody(err))
		return
	}

	updated, err := h.deps.UserService.Rename(c.Request.Context(), user.ID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	h.deps.Sessions.Dispatch(user.ID, session.Renamed{Name: updated.Name})
	c.JSON(http.StatusOK, newProfileResponse(updated))
}

type onboardingRequest struct {
	Stats       *domain.UserStats `json:"stats" binding:"required"`
	Preferences []string          `json:"preferences"`
	Allergies   []string          `json:"allergies"`
}

func (h *Handler) CompleteOnboarding(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req onboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidBody(err))
		return
	}

	prefs := make([]domain.DietaryPreference, 0, len(req.Preferences))
	for _, p := range req.Preferences {
		pref, ok := domain.ParseDietaryPreference(p)
		if !ok {
			respondError(c, errors.NewValidationError("Preferência desconhecida: "+p))
			return
		}
		prefs = append(prefs, pref)
	}
	allergies := make([]domain.Allergen, 0, len(req.Allergies))
	for _, a := range req.Allergies {
		allergen, ok := domain.ParseAllergen(a)
		if !ok {
			respondError(c, errors.NewValidationError("Alergênico desconhecido: "+a))
			return
		}
		allergies = append(allergies, allergen)
	}

	updated, err := h.deps.UserService.CompleteOnboarding(c.Request.Context(), user.ID, req.Stats, prefs, allergies)
	if err != nil {
		respondError(c, err)
		return
	}
	h.deps.Sessions.Dispatch(user.ID, session.OnboardingCompleted{
		Stats:     *updated.Stats,
		Prefs:     updated.Preferences,
		Allergies: updated.Allergies,
	})
	c.JSON(http.StatusOK, newProfileResponse(updated))
}

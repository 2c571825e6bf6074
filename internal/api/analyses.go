package api

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/errors"
	"github.com/vladimiradmaev/fitscan-coach/internal/services"
	"github.com/vladimiradmaev/fitscan-coach/internal/session"
)

const maxUploadBytes = 10 << 20

type analysisRequest struct {
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
}

// Analyze runs the food analysis for a signed-in user or a guest. The result
// becomes the session's pending analysis.
func (h *Handler) Analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	image, mimeType, err := readImage(c)
	if err != nil {
		respondError(c, err)
		return
	}

	scope := guestSessionID(c)
	sessionID := scope
	var user *domain.User
	if _, ok := currentUserID(c); ok {
		if user, ok = h.currentUser(c); !ok {
			return
		}
		sessionID, scope = user.ID, user.ID
	}

	var result *services.AnalysisResult
	_, err = h.deps.Sessions.Do(sessionID, func(s session.AppState) ([]session.Action, error) {
		r, err := h.deps.FoodAnalysisSvc.Analyze(c.Request.Context(), scope, image, mimeType, user)
		if err != nil {
			return nil, err
		}
		result = r
		return []session.Action{
			session.Navigated{View: domain.ViewScanner},
			session.AnalysisReady{Analysis: r.Analysis},
		}, nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// readImage accepts a multipart "image" field or a JSON body with base64
// data, optionally as a data URL.
func readImage(c *gin.Context) ([]byte, string, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("image")
		if err != nil {
			return nil, "", errors.NewValidationError("Envie uma imagem do alimento.")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, "", invalidBody(err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, "", invalidBody(err)
		}
		mimeType := fh.Header.Get("Content-Type")
		if mimeType == "" || mimeType == "application/octet-stream" {
			mimeType = http.DetectContentType(data)
		}
		return data, mimeType, nil
	}

	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, "", invalidBody(err)
	}
	return decodeImage(req.Image, req.MimeType)
}

func decodeImage(encoded, mimeType string) ([]byte, string, error) {
	encoded = strings.TrimSpace(encoded)
	if rest, ok := strings.CutPrefix(encoded, "data:"); ok {
		header, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", errors.NewValidationError("Imagem em formato inválido.")
		}
		if mt, _, _ := strings.Cut(header, ";"); mt != "" && mimeType == "" {
			mimeType = mt
		}
		encoded = payload
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrorTypeValidation, "INVALID_IMAGE", "Imagem em formato inválido.")
	}
	if mimeType == "" && len(data) > 0 {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}

type logRequest struct {
	MealType string `json:"mealType" binding:"required"`
}

// LogFood commits the pending analysis to the food log.
func (h *Handler) LogFood(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req logRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidBody(err))
		return
	}
	meal, ok := domain.ParseMealType(req.MealType)
	if !ok {
		respondError(c, errors.NewValidationError(fmt.Sprintf("Refeição desconhecida: %s", req.MealType)))
		return
	}

	state, err := h.deps.Sessions.Do(user.ID, func(s session.AppState) ([]session.Action, error) {
		if s.PendingAnalysis == nil {
			return nil, errors.ErrNoPendingAnalysis
		}
		return []session.Action{session.FoodLogged{
			ID:       newID(),
			At:       h.deps.Now().UnixMilli(),
			MealType: meal,
		}}, nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, state.FoodLog[0])
}

package server

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/rxhtt/morrigan/internal"
	"github.com/rxhtt/morrigan/pkg/chat"
	"github.com/rxhtt/morrigan/pkg/models"
)

var log = internal.GetLogger()

var validate = validator.New()

// PostChatHandler runs one generation cycle per request. Degraded stages
// are already folded into the gateway result, so every handled outcome is
// a 200 with displayable text; only a truly unexpected failure produces a
// 500, and even then the body carries a diagnostic string.
func PostChatHandler(appState *models.AppState, gateway *chat.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				renderDiagnostic(
					w,
					fmt.Errorf("unexpected gateway failure: %v", p),
					http.StatusInternalServerError,
				)
			}
		}()

		var req models.ChatRequest
		if err := decodeJSON(r, &req); err != nil {
			renderDiagnostic(w, err, http.StatusInternalServerError)
			return
		}
		if err := validate.Struct(&req); err != nil {
			renderDiagnostic(w, err, http.StatusInternalServerError)
			return
		}

		result := gateway.HandleTurn(r.Context(), &req)
		if degraded := result.DegradedStages(); len(degraded) > 0 {
			log.Infof("chat turn degraded stages: %v", degraded)
		}

		resp := models.ChatResponse{Text: result.Text, Audio: result.Audio}
		if err := encodeJSON(w, resp); err != nil {
			log.Errorf("error encoding chat response: %v", err)
		}
	}
}

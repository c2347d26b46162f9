package testutils

import (
	"github.com/brianvoe/gofakeit/v6"

	"github.com/rxhtt/morrigan/pkg/models"
)

// FakeExchange returns an alternating user/assistant conversation of the
// given number of turns, ending on a user turn.
func FakeExchange(turns int) []models.Message {
	messages := make([]models.Message, turns)
	for i := range messages {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		messages[i] = models.Message{
			Role:    role,
			Content: gofakeit.Sentence(8),
		}
	}
	if turns > 0 && messages[turns-1].Role != models.RoleUser {
		messages[turns-1].Role = models.RoleUser
	}
	return messages
}

// FakeVector returns a deterministic-length embedding-like vector.
func FakeVector(dims int) []float32 {
	vector := make([]float32, dims)
	for i := range vector {
		vector[i] = float32(gofakeit.Float32Range(-1, 1))
	}
	return vector
}

package models

// Message is a single conversational turn. Ordering within a ChatRequest is
// chronological and messages are immutable once created.
type Message struct {
	Role    string `json:"role"    validate:"required,oneof=user assistant"`
	Content string `json:"content"`
}

// MediaPayload is an attachment captured by the client. The gateway treats
// it as opaque beyond mime-type branching; Base64 may carry a data-URL
// prefix which adapters strip before decoding.
type MediaPayload struct {
	Base64   string `json:"base64"   validate:"required"`
	MimeType string `json:"mimeType" validate:"required"`
	Name     string `json:"name,omitempty"`
}

// IsImage reports whether the payload should take the image branch.
func (m *MediaPayload) IsImage() bool {
	return len(m.MimeType) >= 5 && m.MimeType[:5] == "image"
}

type GeoPoint struct {
	Latitude  float64 `json:"latitude"  validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// ChatRequest is the inbound request body for a single generation cycle.
// It is created per call and discarded once the response is sent.
type ChatRequest struct {
	Messages    []Message     `json:"messages"           validate:"required,min=1,dive"`
	Model       string        `json:"model"              validate:"required"`
	SessionID   string        `json:"sessionId,omitempty"`
	VoiceOutput bool          `json:"voiceOutput"`
	FileData    *MediaPayload `json:"fileData,omitempty"`
	Location    *GeoPoint     `json:"location,omitempty"`
}

// LastUserMessage returns the content of the most recent user turn, or the
// empty string when the request carries none.
func (r *ChatRequest) LastUserMessage() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content
		}
	}
	return ""
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatResponse is the outbound response body. Audio, when present, is
// base64-encoded mono 16-bit little-endian PCM.
type ChatResponse struct {
	Text  string `json:"text"`
	Audio string `json:"audio,omitempty"`
}

// StageError records a stage that degraded during a generation cycle.
// Degradation never fails the request; we keep the reasons so callers and
// tests can observe which stages fell back.
type StageError struct {
	Stage string
	Err   error
}

// GenerationResult is the gateway's internal result. Only Text and Audio
// cross the wire; Degraded is for observability and tests.
type GenerationResult struct {
	Text     string       `json:"text"`
	Audio    string       `json:"audio,omitempty"`
	Degraded []StageError `json:"-"`
}

// DegradedStages returns the names of the stages that fell back.
func (r *GenerationResult) DegradedStages() []string {
	stages := make([]string, len(r.Degraded))
	for i, d := range r.Degraded {
		stages[i] = d.Stage
	}
	return stages
}

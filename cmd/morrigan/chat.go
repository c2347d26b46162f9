package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rxhtt/morrigan/pkg/audio"
	"github.com/rxhtt/morrigan/pkg/models"
)

var (
	chatServerURL string
	chatModel     string
	chatSession   string
	chatVoice     bool
)

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send a single turn to a running gateway and play any voice output",
	Long: `Sends one user message to the gateway and prints the reply.
With --voice, the synthesized audio is decoded and streamed as raw
16-bit LE PCM to stdout, suitable for piping:

  morrigan chat --voice "status report" | aplay -f S16_LE -r 24000 -c 1

Ctrl-C aborts an in-flight request.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(strings.Join(args, " "))
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatServerURL, "server", "http://localhost:8000", "gateway base URL")
	chatCmd.Flags().StringVar(&chatModel, "model", "gemini-3-flash-preview", "model id to dispatch on")
	chatCmd.Flags().StringVar(&chatSession, "session", "", "session id (memory namespace)")
	chatCmd.Flags().BoolVar(&chatVoice, "voice", false, "request synthesized speech")
}

func runChat(message string) error {
	// Ctrl-C is the stop action: it cancels the in-flight request and no
	// further pipeline steps run client-side.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reqBody, err := json.Marshal(models.ChatRequest{
		Messages:    []models.Message{{Role: models.RoleUser, Content: message}},
		Model:       chatModel,
		SessionID:   chatSession,
		VoiceOutput: chatVoice,
	})
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, chatServerURL+"/api/chat", bytes.NewReader(reqBody),
	)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var chatResp models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return fmt.Errorf("decoding gateway response: %w", err)
	}

	fmt.Fprintln(os.Stderr, chatResp.Text)

	if chatResp.Audio != "" {
		playAudio(chatResp.Audio)
		// The shared output stays open across plays; tear it down once,
		// when the command is done.
		if err := audio.Output().Close(); err != nil {
			log.Warnf("audio output close failed: %v", err)
		}
	}

	return nil
}

// playAudio decodes and plays the voice payload. Failure is logged only;
// it never surfaces beyond the absence of audible output.
func playAudio(b64 string) {
	samples, err := audio.Decode(b64)
	if err != nil {
		log.Warnf("audio decode failed: %v", err)
		return
	}

	audio.Output().Play(samples, 24000)
}

package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	orchestration "github.com/koscakluka/ema-chat/core"
	"github.com/koscakluka/ema-chat/core/audio"
	"github.com/koscakluka/ema-chat/core/audio/miniaudio"
	"github.com/koscakluka/ema-chat/core/audio/mp3"
	"github.com/koscakluka/ema-chat/core/audio/playback"
	"github.com/koscakluka/ema-chat/core/audio/portaudio"
	"github.com/koscakluka/ema-chat/core/config"
	"github.com/koscakluka/ema-chat/core/conversations"
	"github.com/koscakluka/ema-chat/core/events"
	"github.com/koscakluka/ema-chat/core/llms"
	"github.com/koscakluka/ema-chat/core/llms/openai"
	"github.com/koscakluka/ema-chat/core/texttospeech"
	"github.com/koscakluka/ema-chat/core/texttospeech/elevenlabs"
)

const eventBufferSize = 64

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "ema-chat",
		Short:         "Chat with an assistant in the terminal and have it speak its replies",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&envFile, "env", config.DefaultEnvFile, "dotenv file with API keys and settings")

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	eventsCh := make(chan events.Event, eventBufferSize)
	session := newSession(cfg, func(event events.Event) {
		select {
		case eventsCh <- event:
		default:
			// The UI only needs the latest state, a dropped event is redrawn
			// on the next one.
		}
	})
	defer session.Close()

	program := tea.NewProgram(newModel(ctx, session, eventsCh, cfg.ElevenLabs.Enabled()), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func newSession(cfg *config.Config, listener func(events.Event)) *orchestration.Session {
	chatModel := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, openai.WithBaseURL(cfg.OpenAI.BaseURL))
	completer := llms.NewCompletionClient(chatModel, conversations.NewMemory(), cfg.OpenAI.Persona,
		llms.WithTimeout(cfg.Session.CompletionTimeout))

	opts := []orchestration.SessionOption{
		orchestration.WithEventListener(listener),
		orchestration.WithQueueSize(cfg.Session.QueueSize),
	}

	if cfg.ElevenLabs.Enabled() {
		store := audio.NewOSStore(cfg.Session.ArtifactDir)
		speech := elevenlabs.NewClient(cfg.ElevenLabs.APIKey, store,
			elevenlabs.WithBaseURL(cfg.ElevenLabs.BaseURL),
			elevenlabs.WithModelID(cfg.ElevenLabs.Model),
			elevenlabs.WithTimeout(cfg.Session.SynthesisTimeout),
		)

		opts = append(opts,
			orchestration.WithTextToSpeech(speech),
			orchestration.WithAudioPlayer(playback.NewEngine(newOutput(cfg.Audio.Backend), mp3.NewDecoder())),
			orchestration.WithSynthesisTimeout(cfg.Session.SynthesisTimeout),
			orchestration.WithVoiceSettings(texttospeech.VoiceSettings{
				Stability:       cfg.ElevenLabs.Stability,
				SimilarityBoost: cfg.ElevenLabs.Similarity,
			}),
		)
	}

	return orchestration.NewSession(completer, opts...)
}

func newOutput(backend string) audio.Output {
	if backend == config.BackendPortaudio {
		return portaudio.NewOutput(portaudio.DefaultFramesPerBuffer)
	}
	return miniaudio.NewOutput()
}

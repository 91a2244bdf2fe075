// Package tts synthesizes listening-question audio through Google Cloud
// Text-to-Speech.
package tts

import (
	"context"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	texttospeechpb "google.golang.org/genproto/googleapis/cloud/texttospeech/v1"
)

// Fixed synthesis parameters: the engine always requests the same voice,
// rate and pitch.
const (
	languageCode = "en-US"
	voiceName    = "en-US-Standard-F"
	speakingRate = 0.9
)

// Speaker wraps the Google TTS client. The client finds its key through
// GOOGLE_APPLICATION_CREDENTIALS.
type Speaker struct {
	client *texttospeech.Client
}

// NewSpeaker creates a TTS speaker.
func NewSpeaker(ctx context.Context) (*Speaker, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create TTS client: %w", err)
	}
	return &Speaker{client: client}, nil
}

// Synthesize returns MP3 audio of the literal text.
func (s *Speaker) Synthesize(ctx context.Context, text string) ([]byte, error) {
	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: languageCode,
			Name:         voiceName,
			SsmlGender:   texttospeechpb.SsmlVoiceGender_FEMALE,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  speakingRate,
			Pitch:         0,
		},
	}

	resp, err := s.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("SynthesizeSpeech: %w", err)
	}
	return resp.AudioContent, nil
}

// Close releases the underlying client.
func (s *Speaker) Close() error {
	return s.client.Close()
}

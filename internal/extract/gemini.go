package extract

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/mendonca-galvao/horaextra/internal/model"
	"github.com/mendonca-galvao/horaextra/internal/reader"
)

const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"

	DefaultModel = "gemini-2.5-flash"
)

// generator is the part of genai.Models used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options configures a Gemini extractor.
type Options struct {
	// APIKey authenticates against the Gemini API backend.
	APIKey string
	// Backend is BackendGemini (default) or BackendVertex.
	Backend  string
	Model    string
	Project  string
	Location string
	// HTTPClient must carry credentials when Backend is BackendVertex.
	HTTPClient *http.Client
	// Timeout bounds each extraction call; zero means no limit.
	Timeout time.Duration
}

// Gemini extracts records with a Gemini multimodal model.
type Gemini struct {
	models  generator
	model   string
	timeout time.Duration
	config  *genai.GenerateContentConfig
	log     zerolog.Logger
}

// NewGemini creates the client. A missing API key is reported by the
// service's client constructor, not validated here.
func NewGemini(ctx context.Context, opts Options, log zerolog.Logger) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.Backend == BackendVertex {
		cc = &genai.ClientConfig{
			Backend:    genai.BackendVertexAI,
			Project:    opts.Project,
			Location:   opts.Location,
			HTTPClient: opts.HTTPClient,
		}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating extraction client: %w", err)
	}
	return newGemini(client.Models, opts, log), nil
}

func newGemini(models generator, opts Options, log zerolog.Logger) *Gemini {
	name := opts.Model
	if name == "" {
		name = DefaultModel
	}
	return &Gemini{
		models:  models,
		model:   name,
		timeout: opts.Timeout,
		config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    responseSchema(),
		},
		log: log.With().Str("component", "extract").Str("model", name).Logger(),
	}
}

// Extract implements Extractor. Every failure is logged with its cause and
// reported as ErrExtraction.
func (g *Gemini) Extract(ctx context.Context, doc reader.Payload) ([]model.TimesheetRecord, error) {
	log := g.log.With().Str("file", doc.Name).Str("media_type", doc.MediaType).Logger()

	data, err := doc.Bytes()
	if err != nil {
		log.Error().Err(err).Msg("invalid document payload")
		return nil, ErrExtraction
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, doc.MediaType),
			genai.NewPartFromText(UserPrompt),
		}, genai.RoleUser),
	}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, contents, g.config)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("extraction service call failed")
		return nil, ErrExtraction
	}

	records, err := decodeRecords(resp.Text())
	if err != nil {
		log.Error().Err(err).Msg("unusable extraction response")
		return nil, ErrExtraction
	}

	log.Debug().Int("records", len(records)).Dur("elapsed", time.Since(start)).Msg("document extracted")
	return records, nil
}

package extract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/mendonca-galvao/horaextra/internal/model"
	"github.com/mendonca-galvao/horaextra/internal/reader"
)

type fakeGenerator struct {
	text string
	err  error

	gotModel    string
	gotContents []*genai.Content
	gotConfig   *genai.GenerateContentConfig
	gotDeadline bool
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	f.gotContents = contents
	f.gotConfig = config
	_, f.gotDeadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	resp := &genai.GenerateContentResponse{}
	if f.text != "" {
		resp.Candidates = []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}}
	}
	return resp, nil
}

func payload() reader.Payload {
	return reader.Payload{
		Name:      "espelho.png",
		MediaType: "image/png",
		Data:      base64.StdEncoding.EncodeToString([]byte("png-bytes")),
	}
}

func TestGeminiExtract(t *testing.T) {
	gen := &fakeGenerator{text: `[
		{"empresa":"Jappa","nome":"João","qtdeFaltas":1,"diasFaltas":"Seg 21/10","he50":"02:30","he100":"00:00","adcNoturno":"00:00","observacoes":"Sem observações"},
		{"empresa":"Jappa","nome":"Maria","qtdeFaltas":0,"diasFaltas":"","he50":"","he100":"01:00","adcNoturno":"03:15","observacoes":"Sem faltas no período."}
	]`}
	g := newGemini(gen, Options{}, zerolog.Nop())

	got, err := g.Extract(context.Background(), payload())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := []model.TimesheetRecord{
		{Company: "Jappa", Name: "João", AbsenceCount: 1, AbsenceDays: "Seg 21/10", Overtime50: "02:30", Overtime100: "00:00", NightShiftPremium: "00:00", Notes: "Sem observações"},
		{Company: "Jappa", Name: "Maria", AbsenceCount: 0, AbsenceDays: "", Overtime50: "00:00", Overtime100: "01:00", NightShiftPremium: "03:15", Notes: "Sem faltas no período."},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}

	if gen.gotModel != DefaultModel {
		t.Errorf("model = %q, want %q", gen.gotModel, DefaultModel)
	}
	if gen.gotDeadline {
		t.Error("no deadline expected without a timeout")
	}
	if len(gen.gotContents) != 1 || len(gen.gotContents[0].Parts) != 2 {
		t.Fatalf("unexpected request contents: %+v", gen.gotContents)
	}
	blob := gen.gotContents[0].Parts[0].InlineData
	if blob == nil || string(blob.Data) != "png-bytes" || blob.MIMEType != "image/png" {
		t.Errorf("inline document = %+v, want decoded bytes with media type", blob)
	}
	if gen.gotConfig.ResponseMIMEType != "application/json" {
		t.Errorf("ResponseMIMEType = %q", gen.gotConfig.ResponseMIMEType)
	}
	items := gen.gotConfig.ResponseSchema.Items
	if len(items.Required) != 8 || items.Properties["qtdeFaltas"].Type != genai.TypeNumber {
		t.Errorf("response schema = %+v, want 8 required fields with numeric qtdeFaltas", items)
	}
}

func TestGeminiExtractEmptyArray(t *testing.T) {
	g := newGemini(&fakeGenerator{text: "[]"}, Options{}, zerolog.Nop())
	got, err := g.Extract(context.Background(), payload())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records, want 0", len(got))
	}
}

func TestGeminiExtractFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
		doc  reader.Payload
	}{
		{"service error", &fakeGenerator{err: errors.New("403 API key not valid")}, payload()},
		{"empty response", &fakeGenerator{}, payload()},
		{"malformed json", &fakeGenerator{text: `[{"empresa": "Jappa"`}, payload()},
		{"object instead of array", &fakeGenerator{text: `{"empresa":"Jappa"}`}, payload()},
		{"fractional absence count", &fakeGenerator{text: `[{"nome":"X","qtdeFaltas":1.5}]`}, payload()},
		{"negative absence count", &fakeGenerator{text: `[{"nome":"X","qtdeFaltas":-2}]`}, payload()},
		{"bad payload", &fakeGenerator{text: "[]"}, reader.Payload{Name: "x", Data: "%%%"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGemini(tt.gen, Options{}, zerolog.Nop())
			_, err := g.Extract(context.Background(), tt.doc)
			if err != ErrExtraction {
				t.Fatalf("Extract error = %v, want ErrExtraction", err)
			}
		})
	}
}

func TestGeminiExtractTimeout(t *testing.T) {
	gen := &fakeGenerator{text: "[]"}
	g := newGemini(gen, Options{Model: "gemini-test", Timeout: time.Minute}, zerolog.Nop())
	if _, err := g.Extract(context.Background(), payload()); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !gen.gotDeadline {
		t.Error("expected a deadline on the service call")
	}
	if gen.gotModel != "gemini-test" {
		t.Errorf("model = %q, want %q", gen.gotModel, "gemini-test")
	}
}

func TestAbsenceCount(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"3", 3, false},
		{"2.0", 2, false},
		{"2.5", 0, true},
		{"-1", 0, true},
	}
	for _, tt := range tests {
		got, err := absenceCount(json.Number(tt.in))
		if (err != nil) != tt.wantErr {
			t.Errorf("absenceCount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("absenceCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrExtraction, MsgExtractionFailed},
		{fmt.Errorf("wrapped: %w", ErrExtraction), MsgExtractionFailed},
		{errors.New("disk full"), ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
	if msg := ErrExtraction.Error(); strings.ToLower(msg) != msg || strings.HasSuffix(msg, ".") {
		t.Errorf("ErrExtraction text %q should be lowercase without punctuation", msg)
	}
}

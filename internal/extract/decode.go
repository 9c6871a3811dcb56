package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"

	"github.com/mendonca-galvao/horaextra/internal/model"
)

// wireRecord is one element of the service response; field names are part of
// the response schema.
type wireRecord struct {
	Empresa     string      `json:"empresa"`
	Nome        string      `json:"nome"`
	QtdeFaltas  json.Number `json:"qtdeFaltas"`
	DiasFaltas  string      `json:"diasFaltas"`
	HE50        string      `json:"he50"`
	HE100       string      `json:"he100"`
	AdcNoturno  string      `json:"adcNoturno"`
	Observacoes string      `json:"observacoes"`
}

var wireFields = []string{
	"empresa",
	"nome",
	"qtdeFaltas",
	"diasFaltas",
	"he50",
	"he100",
	"adcNoturno",
	"observacoes",
}

// responseSchema is the structure the service is contracted to honour.
func responseSchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(wireFields))
	for _, f := range wireFields {
		props[f] = &genai.Schema{Type: genai.TypeString}
	}
	props["qtdeFaltas"] = &genai.Schema{Type: genai.TypeNumber}

	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type:             genai.TypeObject,
			Properties:       props,
			Required:         wireFields,
			PropertyOrdering: wireFields,
		},
	}
}

var errEmptyResponse = errors.New("empty response from extraction service")

// decodeRecords parses the service's JSON text into records.
func decodeRecords(text string) ([]model.TimesheetRecord, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errEmptyResponse
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	var wire []wireRecord
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("decoding extraction response: %w", err)
	}

	records := make([]model.TimesheetRecord, 0, len(wire))
	for i, w := range wire {
		count, err := absenceCount(w.QtdeFaltas)
		if err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, w.Nome, err)
		}
		records = append(records, model.TimesheetRecord{
			Company:           w.Empresa,
			Name:              w.Nome,
			AbsenceCount:      count,
			AbsenceDays:       w.DiasFaltas,
			Overtime50:        orZero(w.HE50),
			Overtime100:       orZero(w.HE100),
			NightShiftPremium: orZero(w.AdcNoturno),
			Notes:             w.Observacoes,
		})
	}
	return records, nil
}

// absenceCount accepts integral, non-negative numbers such as 2 or 2.0.
func absenceCount(n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("invalid qtdeFaltas %q: %w", n, err)
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, fmt.Errorf("qtdeFaltas %s is not a non-negative integer", n)
	}
	return int(f), nil
}

func orZero(s string) string {
	if strings.TrimSpace(s) == "" {
		return model.ZeroDuration
	}
	return s
}

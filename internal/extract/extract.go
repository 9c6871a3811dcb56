// Package extract sends timesheet documents to the external extraction
// service and turns its structured answer into records.
package extract

import (
	"context"
	"errors"

	"github.com/mendonca-galvao/horaextra/internal/model"
	"github.com/mendonca-galvao/horaextra/internal/reader"
)

// ErrExtraction is the only error Extract implementations return to callers;
// the underlying cause is logged instead.
var ErrExtraction = errors.New("document extraction failed")

// MsgExtractionFailed is the text shown to users for ErrExtraction.
const MsgExtractionFailed = "Falha ao processar o documento. Verifique se é uma imagem ou PDF válido."

// UserMessage returns the user-facing text for err, or "" when err is not an
// extraction failure.
func UserMessage(err error) string {
	if errors.Is(err, ErrExtraction) {
		return MsgExtractionFailed
	}
	return ""
}

// Extractor extracts every employee summary found in one document.
type Extractor interface {
	// Extract returns zero or more records. An empty result is not an error.
	Extract(ctx context.Context, doc reader.Payload) ([]model.TimesheetRecord, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, doc reader.Payload) ([]model.TimesheetRecord, error)

func (f ExtractorFunc) Extract(ctx context.Context, doc reader.Payload) ([]model.TimesheetRecord, error) {
	return f(ctx, doc)
}

// SystemInstruction is the extraction policy sent with every document.
const SystemInstruction = `
Você é o sistema "Mendonça Galvão – Hora Extra", especialista em ler espelhos de ponto eletrônico.
Sua missão é extrair dados de Faltas, Horas Extras e Adicional Noturno de imagens ou PDFs de espelhos de ponto.

REGRAS DE LEITURA DAS FALTAS:
1. Considere como FALTA apenas linhas onde aparece explicitamente a palavra "FALTA".
2. IGNORAR: "FOL" (folga), "FER" (feriado), Atestados, Declarações, Férias, Serviço externo.
3. Para cada falta, capture o Dia da Semana (ex: Seg, Ter) e a Data (ex: 21/10).
4. Formato do campo "diasFaltas": "DiaSemana Data; DiaSemana Data" (separados por ponto e vírgula). Se não houver faltas, deixe vazio.

REGRAS DE HORAS EXTRAS E ADICIONAL NOTURNO:
1. Extraia APENAS do bloco "RESUMO" ou rodapé de totais.
2. Campos a extrair:
   - "H.E. 050%" (Total)
   - "H.E. 100%" (Total)
   - "Adc Noturno" (Total)
3. Formato: HH:MM. Se não existir, use "00:00".

ESTRUTURA DE DADOS:
Retorne um JSON contendo uma lista de objetos, onde cada objeto representa um funcionário encontrado no documento.
Campos obrigatórios: empresa, nome, qtdeFaltas (número), diasFaltas (string), he50 (string), he100 (string), adcNoturno (string), observacoes (string).

OBSERVAÇÕES:
- Se não houver faltas, qtdeFaltas = 0 e observacoes = "Sem faltas no período." (ou outra observação pertinente).
- Se os totais não forem encontrados, note isso em observacoes.
`

// UserPrompt accompanies the document bytes.
const UserPrompt = "Analise este espelho de ponto e extraia os dados conforme as instruções."

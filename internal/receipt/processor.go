package receipt

import (
	"context"
	"log/slog"

	"paisa/internal/llm"
)

const extractionSystemPrompt = `You are an OCR system specialized in extracting transaction data from receipts and bills.
            Extract the following information and return it as a JSON object:
            {
              "amount": number (total amount),
              "description": string (merchant name or item description),
              "category": string (one of: food, transport, education, entertainment, miscellaneous),
              "date": string (ISO date format, use current date if not found),
              "items": array of {name: string, price: number} (individual items if available)
            }

            Be accurate with amounts and dates. If you can't find specific information, make reasonable assumptions based on context.`

const (
	extractionMaxTokens   = 500
	extractionTemperature = 0.1
)

// Completer is the slice of the gateway client the processor needs.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Processor drives one receipt through the gateway's vision model and
// parses the completion into an extraction.
type Processor struct {
	gateway Completer
	log     *slog.Logger
}

func NewProcessor(gateway Completer, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{gateway: gateway, log: logger}
}

// Process sends the base64 receipt image for extraction. The returned
// raw text is the completion verbatim; the extraction falls back to the
// permissive default when the text is not parseable (never an error).
// Only total failure of the gateway call itself propagates.
func (p *Processor) Process(ctx context.Context, imageBase64 string) (RawExtraction, string, error) {
	p.log.InfoContext(ctx, "processing receipt", "image_bytes", len(imageBase64))

	text, err := p.gateway.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			llm.TextContent("system", extractionSystemPrompt),
			llm.VisionContent("Extract transaction data from this receipt:", imageBase64),
		},
		MaxTokens:   extractionMaxTokens,
		Temperature: extractionTemperature,
	})
	if err != nil {
		return RawExtraction{}, "", err
	}

	ex, ok := ParseExtraction(text)
	if !ok {
		p.log.WarnContext(ctx, "extraction text was not valid JSON, using fallback record")
	}
	return ex, text, nil
}

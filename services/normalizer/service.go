package normalizer

import (
	"github.com/RushabhaJain/vocalbridge/services"
	"github.com/RushabhaJain/vocalbridge/services/providers"
	"go.uber.org/zap"
)

// NormalizedResponse is the vendor-neutral turn result shape
type NormalizedResponse struct {
	Text      string `json:"text"`
	TokensIn  int    `json:"tokens_in"`
	TokensOut int    `json:"tokens_out"`
}

// Service converts raw vendor response shapes into NormalizedResponse.
// Recognition is structural: the vendorA variant is identified by a present
// OutputText field, the vendorB variant by a non-empty Choices list with a
// Usage block. Anything else is rejected rather than guessed at.
type Service struct {
	logger *zap.Logger
}

// NewService creates a new normalizer service
func NewService(logger *zap.Logger) *Service {
	return &Service{logger: logger}
}

// Normalize maps a raw vendor response into the neutral shape.
// Returns ErrUnrecognizedResponseShape when neither variant matches.
func (s *Service) Normalize(raw *providers.VendorResponse) (*NormalizedResponse, error) {
	if raw == nil {
		return nil, services.ErrUnrecognizedResponseShape
	}

	if raw.OutputText != nil {
		return &NormalizedResponse{
			Text:      *raw.OutputText,
			TokensIn:  raw.TokensIn,
			TokensOut: raw.TokensOut,
		}, nil
	}

	if len(raw.Choices) > 0 && raw.Usage != nil {
		return &NormalizedResponse{
			Text:      raw.Choices[0].Message.Content,
			TokensIn:  raw.Usage.InputTokens,
			TokensOut: raw.Usage.OutputTokens,
		}, nil
	}

	s.logger.Error("unrecognized provider response shape",
		zap.Int("choices", len(raw.Choices)),
		zap.Bool("has_usage", raw.Usage != nil))
	return nil, services.ErrUnrecognizedResponseShape
}

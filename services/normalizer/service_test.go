package normalizer

import (
	"testing"

	"github.com/RushabhaJain/vocalbridge/services"
	"github.com/RushabhaJain/vocalbridge/services/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNormalize(t *testing.T) {
	svc := NewService(zap.NewNop())
	text := "hello there"

	tests := []struct {
		name    string
		raw     *providers.VendorResponse
		want    *NormalizedResponse
		wantErr bool
	}{
		{
			name: "vendorA shape",
			raw: &providers.VendorResponse{
				OutputText: &text,
				TokensIn:   100,
				TokensOut:  150,
			},
			want: &NormalizedResponse{Text: "hello there", TokensIn: 100, TokensOut: 150},
		},
		{
			name: "vendorB shape",
			raw: &providers.VendorResponse{
				Choices: []providers.Choice{
					{Message: providers.ChoiceMessage{Content: "hi from b"}},
				},
				Usage: &providers.Usage{InputTokens: 80, OutputTokens: 120},
			},
			want: &NormalizedResponse{Text: "hi from b", TokensIn: 80, TokensOut: 120},
		},
		{
			name: "vendorB uses first choice",
			raw: &providers.VendorResponse{
				Choices: []providers.Choice{
					{Message: providers.ChoiceMessage{Content: "first"}},
					{Message: providers.ChoiceMessage{Content: "second"}},
				},
				Usage: &providers.Usage{InputTokens: 10, OutputTokens: 20},
			},
			want: &NormalizedResponse{Text: "first", TokensIn: 10, TokensOut: 20},
		},
		{
			name:    "nil response",
			raw:     nil,
			wantErr: true,
		},
		{
			name:    "empty shape",
			raw:     &providers.VendorResponse{},
			wantErr: true,
		},
		{
			name: "choices without usage",
			raw: &providers.VendorResponse{
				Choices: []providers.Choice{
					{Message: providers.ChoiceMessage{Content: "orphan"}},
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Normalize(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, services.ErrUnrecognizedResponseShape)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_EmptyOutputTextIsValid(t *testing.T) {
	svc := NewService(zap.NewNop())
	empty := ""

	got, err := svc.Normalize(&providers.VendorResponse{OutputText: &empty})
	require.NoError(t, err)
	assert.Equal(t, "", got.Text)
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Message  string `validate:"required,max=10"`
	Provider string `validate:"omitempty,oneof=vendorA vendorB"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		details := ValidateStruct(sampleRequest{Message: "hi", Provider: "vendorA"})
		assert.Nil(t, details)
	})

	t.Run("missing required field", func(t *testing.T) {
		details := ValidateStruct(sampleRequest{})
		require.NotNil(t, details)
		assert.Equal(t, "is required", details["message"])
	})

	t.Run("too long", func(t *testing.T) {
		details := ValidateStruct(sampleRequest{Message: "this is far too long"})
		require.NotNil(t, details)
		assert.Contains(t, details["message"], "at most 10")
	})

	t.Run("bad enum value", func(t *testing.T) {
		details := ValidateStruct(sampleRequest{Message: "hi", Provider: "vendorZ"})
		require.NotNil(t, details)
		assert.Contains(t, details["provider"], "must be one of")
	})
}

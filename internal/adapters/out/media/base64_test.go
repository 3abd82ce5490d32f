package media_test

import (
	"errors"
	"strings"
	"testing"

	"freight/internal/adapters/out/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk gone")
}

func TestBase64Encoder_Encode(t *testing.T) {
	t.Run("encodes_image_bytes", func(t *testing.T) {
		// Given
		encoder := media.NewBase64Encoder()

		// When
		encoded, err := encoder.Encode(strings.NewReader("\xff\xd8\xff\xe0"))

		// Then
		require.NoError(t, err)
		assert.Equal(t, "/9j/4A==", encoded)
	})

	t.Run("propagates_read_failures", func(t *testing.T) {
		// Given
		encoder := media.NewBase64Encoder()

		// When
		_, err := encoder.Encode(failingReader{})

		// Then
		require.Error(t, err)
	})
}

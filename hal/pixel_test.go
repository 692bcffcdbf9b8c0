package hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRGB565RoundTripExtremes(t *testing.T) {
	for _, c := range [][3]uint8{{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {0, 255, 0}, {0, 0, 255}} {
		r, g, b := rgb888From565(rgb565(c[0], c[1], c[2]))
		assert.Equal(t, c, [3]uint8{r, g, b})
	}
	assert.Equal(t, uint16(0xF800), rgb565(255, 0, 0))
	assert.Equal(t, uint16(0x07E0), rgb565(0, 255, 0))
	assert.Equal(t, uint16(0x001F), rgb565(0, 0, 255))
}

func TestRGBA8888From565(t *testing.T) {
	src := []byte{0x00, 0xF8, 0x1F, 0x00}
	dst := make([]byte, 8)
	rgba8888From565(dst, src)
	assert.Equal(t, []byte{255, 0, 0, 255, 0, 0, 255, 255}, dst)
}

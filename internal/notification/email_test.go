package notification

import (
	"testing"

	notifdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepLink(t *testing.T) {
	base := "https://app.example.com/"
	assert.Equal(t, "https://app.example.com/board/3", DeepLink(base, notifdomain.BoardResource(3)))
	assert.Equal(t, "https://app.example.com/board/cards/8", DeepLink(base, notifdomain.CardResource(8)))
	assert.Equal(t, "", DeepLink(base, nil))
}

func TestRenderEmailEscapesContent(t *testing.T) {
	html, err := RenderEmail("https://app.example.com", "Nuevo <b>", "Ana & Bob", notifdomain.CardResource(8))
	require.NoError(t, err)

	assert.Contains(t, html, "Nuevo &lt;b&gt;")
	assert.Contains(t, html, "Ana &amp; Bob")
	assert.Contains(t, html, `href="https://app.example.com/board/cards/8"`)
	assert.Contains(t, html, "Abrir tarjeta")
}

func TestRenderEmailWithoutResource(t *testing.T) {
	html, err := RenderEmail("https://app.example.com", "Hola", "Prueba", nil)
	require.NoError(t, err)
	assert.NotContains(t, html, "href=")
}

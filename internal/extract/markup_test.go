package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffscope/diffscope/internal/grammar"
	"github.com/diffscope/diffscope/internal/model"
)

func TestMarkupIdentitySignature(t *testing.T) {
	source := `
<div id="root" class="wrapper dark">
  <span class="dark wrapper">text</span>
  <img src="logo.png">
</div>
`
	mdl, err := Model("page.html", []byte(source), grammar.Markup)
	require.NoError(t, err)

	keys := map[string]model.Entity{}
	for _, e := range mdl.ByKind(model.KindMarkupElement) {
		keys[e.IdentityKey] = e
	}

	root, ok := keys["div#root.dark.wrapper"]
	require.True(t, ok, "id and sorted classes form the identity; have %v", keys)
	assert.Equal(t, "div", root.Tag)
	assert.Equal(t, "wrapper dark", root.Attributes["class"])

	// Class order in the source must not change the identity.
	_, ok = keys["span.dark.wrapper"]
	assert.True(t, ok)

	img, ok := keys["img"]
	require.True(t, ok)
	assert.Equal(t, "logo.png", img.Attributes["src"])
}

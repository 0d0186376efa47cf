package web

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTemplates(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)
	require.NotNil(t, tmpl.Lookup("gallery.html"))
	require.NotNil(t, tmpl.Lookup("confirm.html"))
}

func TestStatic(t *testing.T) {
	f, err := Static().Open("style.css")
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Contains(t, string(data), ".overlay")
}

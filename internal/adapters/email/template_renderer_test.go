package email

import (
	"testing"

	"eventosapi/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRenderer_Reminder(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	subject, html, text, err := r.Render("reminder", &domain.ReminderEmailData{
		Correo:     "a@x.com",
		Titulo:     "Fiesta <de> verano",
		FechaLocal: "4/3/2025, 12:00:00",
		EventID:    "ev-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Recordatorio: Fiesta <de> verano", subject)
	assert.Equal(t, "Enviando recordatorio a a@x.com: \"Fiesta <de> verano\" será el 4/3/2025, 12:00:00\n", text)
	assert.Contains(t, html, "Fiesta &lt;de&gt; verano")
	assert.Contains(t, html, "ev-1")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	_, _, _, err = r.Render("welcome", struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render subject")
}

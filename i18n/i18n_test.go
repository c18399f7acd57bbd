package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestMatch(t *testing.T) {
	assert.Equal(t, "pt", Match("pt-BR"))
	assert.Equal(t, "es", Match("es_ES"))
	assert.Equal(t, "ru", Match("RU"))
	assert.Equal(t, "en", Match("de-DE"))
	assert.Equal(t, "en", Match(""))
}

func TestT(t *testing.T) {
	defer SetLang(GetLang())

	SetLang("es")
	assert.Equal(t, "Guardar", T("Save"))
	assert.Equal(t, "no such key", T("no such key"))

	SetLang("en")
	assert.Equal(t, "Save", T("Save"))
}

func TestInit_EnvOverride(t *testing.T) {
	defer SetLang(GetLang())
	t.Setenv("SLEEPTIMER_LANG", "ru")

	Init(zaptest.NewLogger(t))
	assert.Equal(t, "ru", GetLang())
	assert.Equal(t, "Стоп", T("Stop Timer"))
}

func TestTranslations_Complete(t *testing.T) {
	for key, byLang := range translations {
		for _, l := range []string{"pt", "es", "ru"} {
			assert.NotEmpty(t, byLang[l], "%q has no %s translation", key, l)
		}
	}
	assert.Equal(t, "Entrada no válida", translations["Invalid Input"]["es"])
}

package i18n

import (
	"os"
	"strings"
	"sync"

	"github.com/jeandeaual/go-locale"
	"go.uber.org/zap"
)

var (
	langMu sync.RWMutex
	lang   = "en"
)

var supported = []string{"pt", "es", "ru"}

var translations = map[string]map[string]string{
	"Sleep Timer": {
		"pt": "Temporizador de Suspensão",
		"es": "Temporizador de Suspensión",
		"ru": "Таймер сна",
	},
	"Timers:": {
		"pt": "Temporizadores:",
		"es": "Temporizadores:",
		"ru": "Таймеры:",
	},
	"Start Timer": {
		"pt": "Iniciar",
		"es": "Iniciar",
		"ru": "Старт",
	},
	"Stop Timer": {
		"pt": "Parar",
		"es": "Parar",
		"ru": "Стоп",
	},
	"Pause Timer": {
		"pt": "Pausar",
		"es": "Pausar",
		"ru": "Пауза",
	},
	"Unpause Timer": {
		"pt": "Continuar",
		"es": "Reanudar",
		"ru": "Продолжить",
	},
	"Add Timer": {
		"pt": "Adicionar",
		"es": "Añadir",
		"ru": "Добавить",
	},
	"Duration:": {
		"pt": "Duração:",
		"es": "Duración:",
		"ru": "Длительность:",
	},
	"Units:": {
		"pt": "Unidade:",
		"es": "Unidad:",
		"ru": "Единицы:",
	},
	"Save": {
		"pt": "Salvar",
		"es": "Guardar",
		"ru": "Сохранить",
	},
	"Cancel": {
		"pt": "Cancelar",
		"es": "Cancelar",
		"ru": "Отмена",
	},
	"Invalid Input": {
		"pt": "Entrada inválida",
		"es": "Entrada no válida",
		"ru": "Неверный ввод",
	},
	"Please enter a valid positive number for duration.": {
		"pt": "Informe um número positivo válido para a duração.",
		"es": "Introduce un número positivo válido para la duración.",
		"ru": "Введите положительное число для длительности.",
	},
	"Please enter a valid time in this format: { Duration } { Units }": {
		"pt": "Informe um tempo válido neste formato: { Duração } { Unidade }",
		"es": "Introduce un tiempo válido con este formato: { Duración } { Unidad }",
		"ru": "Введите время в формате: { Длительность } { Единицы }",
	},
	"Error": {
		"pt": "Erro",
		"es": "Error",
		"ru": "Ошибка",
	},
	"The timer did not respond. Please try again.": {
		"pt": "O temporizador não respondeu. Tente novamente.",
		"es": "El temporizador no respondió. Inténtalo de nuevo.",
		"ru": "Таймер не ответил. Попробуйте ещё раз.",
	},
	"Recent Runs": {
		"pt": "Execuções recentes",
		"es": "Ejecuciones recientes",
		"ru": "Недавние запуски",
	},
	"No runs yet.": {
		"pt": "Nenhuma execução ainda.",
		"es": "Todavía no hay ejecuciones.",
		"ru": "Запусков пока нет.",
	},
	"completed": {
		"pt": "concluído",
		"es": "completado",
		"ru": "завершён",
	},
	"canceled": {
		"pt": "cancelado",
		"es": "cancelado",
		"ru": "отменён",
	},
	"File": {
		"pt": "Arquivo",
		"es": "Archivo",
		"ru": "Файл",
	},
	"Help": {
		"pt": "Ajuda",
		"es": "Ayuda",
		"ru": "Помощь",
	},
	"Toggle Theme": {
		"pt": "Alternar tema",
		"es": "Cambiar tema",
		"ru": "Сменить тему",
	},
	"Set as Default": {
		"pt": "Definir como padrão",
		"es": "Establecer como predeterminado",
		"ru": "Сделать по умолчанию",
	},
	"Clear Custom Timers": {
		"pt": "Limpar temporizadores",
		"es": "Borrar temporizadores",
		"ru": "Очистить таймеры",
	},
	"Version: ": {
		"pt": "Versão: ",
		"es": "Versión: ",
		"ru": "Версия: ",
	},
	"Check me out!": {
		"pt": "Conheça o projeto!",
		"es": "¡Visita el proyecto!",
		"ru": "О проекте",
	},
	"Report a Bug": {
		"pt": "Relatar um erro",
		"es": "Informar de un error",
		"ru": "Сообщить об ошибке",
	},
	"About Sleep Timer": {
		"pt": "Sobre o Temporizador",
		"es": "Acerca del Temporizador",
		"ru": "О таймере сна",
	},
	"Close": {
		"pt": "Fechar",
		"es": "Cerrar",
		"ru": "Закрыть",
	},
}

// Init picks the language from SLEEPTIMER_LANG or, failing that, from the
// system locale. Unsupported languages fall back to english.
func Init(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Check for override environment variable
	if forcedLang := strings.TrimSpace(os.Getenv("SLEEPTIMER_LANG")); forcedLang != "" {
		logger.Info("SLEEPTIMER_LANG is set", zap.String("lang", forcedLang))
		SetLang(forcedLang)
		return
	}

	userLocales, err := locale.GetLocales()
	if err != nil || len(userLocales) == 0 {
		logger.Info("no user locale detected, defaulting to english", zap.Error(err))
		SetLang("en")
		return
	}

	logger.Info("detected user locale", zap.String("locale", userLocales[0]))
	SetLang(Match(userLocales[0]))
	logger.Info("language set", zap.String("lang", GetLang()))
}

// Match maps a locale such as "pt-BR" to a supported language.
func Match(userLocale string) string {
	for _, l := range supported {
		if strings.HasPrefix(strings.ToLower(userLocale), l) {
			return l
		}
	}
	return "en"
}

func SetLang(l string) {
	langMu.Lock()
	defer langMu.Unlock()
	lang = l
}

func T(key string) string {
	langMu.RLock()
	defer langMu.RUnlock()
	if translated, ok := translations[key][lang]; ok {
		return translated
	}
	return key
}

func GetLang() string {
	langMu.RLock()
	defer langMu.RUnlock()
	return lang
}

package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyRetry             = "retry"
	KeyStop              = "stop"
	KeyResume            = "resume"
	KeyOpen              = "open"
	KeyReveal            = "reveal"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyDownloads         = "downloads"
	KeyClearFinished     = "clear_finished"
	KeyAPIBaseURL        = "api_base_url"
	KeyDownloadDirectory = "download_directory"
	KeyMaxParallel       = "max_parallel"
	KeyPreviewCap        = "preview_cap"
	KeyPreviewMargin     = "preview_margin"
	KeyCatalogCategories = "catalog_categories"
	KeyAutoReveal        = "auto_reveal"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeySearchAssets      = "search_assets"
	KeyAllCategories     = "all_categories"
	KeySettingsSaved     = "settings_saved"
	KeyLoadingCatalog    = "loading_catalog"
	KeyCatalogLoaded     = "catalog_loaded"
	KeyCatalogFailed     = "catalog_failed"
	KeyNoResults         = "no_results"
	KeyDownloadStarted   = "download_started"
	KeyDownloadCompleted = "download_completed"
	KeyAlreadyInQueue    = "already_in_queue"
	KeyErrorOpeningFile  = "error_opening_file"
	KeyPreviewFailed     = "preview_failed"
	KeyAssetsCount       = "assets_count"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "Mesh Gallery",
		KeyRetry:             "Retry",
		KeyStop:              "Stop",
		KeyResume:            "Resume",
		KeyOpen:              "Open",
		KeyReveal:            "Reveal",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyDownloads:         "Downloads",
		KeyClearFinished:     "Clear finished",
		KeyAPIBaseURL:        "Asset Server URL",
		KeyDownloadDirectory: "Download Directory",
		KeyMaxParallel:       "Max Parallel Downloads",
		KeyPreviewCap:        "Max Live Previews",
		KeyPreviewMargin:     "Preload Margin (px)",
		KeyCatalogCategories: "Catalog Categories",
		KeyAutoReveal:        "Reveal completed downloads",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeySearchAssets:      "Search assets...",
		KeyAllCategories:     "All categories",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyLoadingCatalog:    "Loading catalog...",
		KeyCatalogLoaded:     "Catalog loaded",
		KeyCatalogFailed:     "Failed to load catalog",
		KeyNoResults:         "No assets match your search",
		KeyDownloadStarted:   "Download started",
		KeyDownloadCompleted: "Download completed",
		KeyAlreadyInQueue:    "Already in queue",
		KeyErrorOpeningFile:  "Error opening file",
		KeyPreviewFailed:     "Preview failed",
		KeyAssetsCount:       "assets",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "Галерея моделей",
		KeyRetry:             "Повторить",
		KeyStop:              "Стоп",
		KeyResume:            "Продолжить",
		KeyOpen:              "Открыть",
		KeyReveal:            "Показать",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyDownloads:         "Загрузки",
		KeyClearFinished:     "Очистить завершённые",
		KeyAPIBaseURL:        "Адрес сервера ресурсов",
		KeyDownloadDirectory: "Папка загрузки",
		KeyMaxParallel:       "Макс. параллельных",
		KeyPreviewCap:        "Макс. активных превью",
		KeyPreviewMargin:     "Отступ предзагрузки (px)",
		KeyCatalogCategories: "Категории каталога",
		KeyAutoReveal:        "Показывать завершённые загрузки",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeySearchAssets:      "Поиск ресурсов...",
		KeyAllCategories:     "Все категории",
		KeySettingsSaved:     "Настройки успешно сохранены!",
		KeyLoadingCatalog:    "Загрузка каталога...",
		KeyCatalogLoaded:     "Каталог загружен",
		KeyCatalogFailed:     "Не удалось загрузить каталог",
		KeyNoResults:         "Нет ресурсов по запросу",
		KeyDownloadStarted:   "Загрузка начата",
		KeyDownloadCompleted: "Загрузка завершена",
		KeyAlreadyInQueue:    "Уже в очереди",
		KeyErrorOpeningFile:  "Ошибка открытия файла",
		KeyPreviewFailed:     "Превью не загрузилось",
		KeyAssetsCount:       "ресурсов",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "Galeria de Modelos",
		KeyRetry:             "Tentar novamente",
		KeyStop:              "Parar",
		KeyResume:            "Continuar",
		KeyOpen:              "Abrir",
		KeyReveal:            "Mostrar",
		KeySettings:          "Configurações",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyDownloads:         "Downloads",
		KeyClearFinished:     "Limpar concluídos",
		KeyAPIBaseURL:        "URL do servidor de recursos",
		KeyDownloadDirectory: "Diretório de Download",
		KeyMaxParallel:       "Max Downloads Paralelos",
		KeyPreviewCap:        "Max Previews Ativos",
		KeyPreviewMargin:     "Margem de pré-carga (px)",
		KeyCatalogCategories: "Categorias do catálogo",
		KeyAutoReveal:        "Mostrar downloads concluídos",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Navegar",
		KeySearchAssets:      "Pesquisar recursos...",
		KeyAllCategories:     "Todas as categorias",
		KeySettingsSaved:     "Configurações salvas com sucesso!",
		KeyLoadingCatalog:    "Carregando catálogo...",
		KeyCatalogLoaded:     "Catálogo carregado",
		KeyCatalogFailed:     "Falha ao carregar catálogo",
		KeyNoResults:         "Nenhum recurso corresponde à pesquisa",
		KeyDownloadStarted:   "Download iniciado",
		KeyDownloadCompleted: "Download concluído",
		KeyAlreadyInQueue:    "Já na fila",
		KeyErrorOpeningFile:  "Erro ao abrir arquivo",
		KeyPreviewFailed:     "Falha na pré-visualização",
		KeyAssetsCount:       "recursos",
	}
}

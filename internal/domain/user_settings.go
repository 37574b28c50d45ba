package domain

// Themes accepted by UserSettings.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// DefaultLanguage is used for new settings.
const DefaultLanguage = "pt-BR"

const languageMax = 10

// UserSettings holds per-user preferences (1:1 with User).
type UserSettings struct {
	base
	userID        int64
	theme         string
	language      string
	notifications bool
}

// UserSettingsState is the persisted form of UserSettings.
type UserSettingsState struct {
	Record
	UserID               int64  `json:"user_id"`
	Theme                string `json:"theme"`
	Language             string `json:"language"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

func checkTheme(theme string) error {
	switch theme {
	case ThemeLight, ThemeDark, ThemeSystem:
		return nil
	}
	return invalid("theme", "Tema inválido. Use light, dark ou system.")
}

// NewUserSettings validates and creates unpersisted settings.
func NewUserSettings(userID int64, theme, language string, notifications bool) (*UserSettings, error) {
	if err := checkID("userId", userID); err != nil {
		return nil, err
	}
	if err := checkTheme(theme); err != nil {
		return nil, err
	}
	language, err := checkText("language", language, 2, languageMax)
	if err != nil {
		return nil, err
	}
	return &UserSettings{
		base:          newBase(),
		userID:        userID,
		theme:         theme,
		language:      language,
		notifications: notifications,
	}, nil
}

// DefaultUserSettings returns the settings every new user starts with.
func DefaultUserSettings(userID int64) (*UserSettings, error) {
	return NewUserSettings(userID, ThemeLight, DefaultLanguage, true)
}

// LoadUserSettings rehydrates settings without validation.
func LoadUserSettings(s UserSettingsState) *UserSettings {
	return &UserSettings{
		base:          loadBase(s.Record),
		userID:        s.UserID,
		theme:         s.Theme,
		language:      s.Language,
		notifications: s.NotificationsEnabled,
	}
}

func (s *UserSettings) UserID() int64              { return s.userID }
func (s *UserSettings) Theme() string              { return s.theme }
func (s *UserSettings) Language() string           { return s.language }
func (s *UserSettings) NotificationsEnabled() bool { return s.notifications }

// Update replaces all preferences. Returns false when nothing changed.
func (s *UserSettings) Update(theme, language string, notifications bool) (bool, error) {
	if err := checkTheme(theme); err != nil {
		return false, err
	}
	language, err := checkText("language", language, 2, languageMax)
	if err != nil {
		return false, err
	}
	if theme == s.theme && language == s.language && notifications == s.notifications {
		return false, nil
	}
	s.theme = theme
	s.language = language
	s.notifications = notifications
	s.touch()
	return true, nil
}

// State returns the persisted form.
func (s *UserSettings) State() UserSettingsState {
	return UserSettingsState{
		Record:               s.record(),
		UserID:               s.userID,
		Theme:                s.theme,
		Language:             s.language,
		NotificationsEnabled: s.notifications,
	}
}

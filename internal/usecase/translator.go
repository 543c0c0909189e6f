package usecase

// Translator renders a localized text by key.
type Translator interface {
	T(key string, args ...interface{}) string
}

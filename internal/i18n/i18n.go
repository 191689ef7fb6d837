// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

// package i18n provides internationalization and localization support for
// Mensad. It uses the go-i18n library to load and manage translation files,
// allowing the user interface to be displayed in multiple languages. Log
// output stays English; only user-facing CLI/TUI strings are localized.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/mensahub/mensad/util/mapst"
)

// localeFS embeds the YAML translation files from the 'locales' directory
// into the application binary.
//
//go:embed locales/*.yaml
var localeFS embed.FS

// bundle stores all the loaded translation messages from the locale files.
var bundle *i18n.Bundle

// localizer is used to translate messages into a specific language.
var localizer *i18n.Localizer

// currentLang is the resolved language code the localizer was built for.
var currentLang string

// localeDisplayNames maps locale codes to their native display names.
var localeDisplayNames = map[string]string{
	"en": "English",
	"de": "Deutsch",
}

// Init initializes the i18n bundle and sets up the localizer for a specific
// language. It parses all embedded YAML files from the 'locales' directory.
// Unknown or regional codes are matched against the available locales, so
// "de-AT" resolves to "de".
func Init(lang string) {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, _ := localeFS.ReadFile("locales/" + f.Name())
		bundle.ParseMessageFileBytes(data, f.Name())
	}

	currentLang = matchLang(lang)
	localizer = i18n.NewLocalizer(bundle, currentLang, "en")
}

// matchLang resolves a requested language code against the available locales
// and falls back to English when nothing matches.
func matchLang(lang string) string {
	if lang == "" {
		return "en"
	}
	avail := GetAvailableLocales()
	if _, ok := avail[lang]; ok {
		return lang
	}

	codes := mapst.SortedKeys(avail)

	// English first so it is the matcher's fallback.
	tags := []language.Tag{language.English}
	ordered := []string{"en"}
	for _, code := range codes {
		if code == "en" {
			continue
		}
		if tag, err := language.Parse(code); err == nil {
			tags = append(tags, tag)
			ordered = append(ordered, code)
		}
	}

	want, err := language.Parse(lang)
	if err != nil {
		return "en"
	}
	_, idx, _ := language.NewMatcher(tags).Match(want)
	return ordered[idx]
}

// T translates a message by its ID. Extra arguments are applied to the
// translated template with fmt.Sprintf. If the i18n system has not been
// initialized, it defaults to English. If a translation for the given ID is
// not found, it returns the ID itself.
func T(messageID string, args ...interface{}) string {
	if localizer == nil {
		Init("en")
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		// If the message ID is not found, go-i18n returns an error.
		// In this case, we return the message ID itself as a fallback.
		return messageID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// GetLang returns the language code the localizer is currently using.
func GetLang() string {
	if currentLang == "" {
		return "en"
	}
	return currentLang
}

// SetLang changes the active language of the localizer.
func SetLang(lang string) {
	Init(lang)
}

// GetAvailableLocales returns the embedded locale codes mapped to their
// display names.
func GetAvailableLocales() map[string]string {
	out := make(map[string]string)
	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		code := strings.TrimSuffix(f.Name(), ".yaml")
		if name, ok := localeDisplayNames[code]; ok {
			out[code] = name
		} else {
			out[code] = code
		}
	}
	return out
}

// Package i18n serves UI translation catalogs. Defaults are compiled into the
// binary; operators may override individual strings through the translations
// collection. Overrides only replace keys that exist in the embedded defaults,
// and a failed override load never blocks startup.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"meditravel/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

//go:embed locales/*.json
var localeFS embed.FS

// DefaultLanguage is served when the requested language has no catalog.
const DefaultLanguage = "en"

// Catalog maps translation keys to localized strings for one language.
type Catalog map[string]string

type translationOverride struct {
	Lang  string `bson:"lang"`
	Key   string `bson:"key"`
	Value string `bson:"value"`
}

// Translator holds the merged catalogs and answers lookups.
type Translator struct {
	mu       sync.RWMutex
	catalogs map[string]Catalog
}

// NewTranslator loads the embedded default catalogs.
func NewTranslator() (*Translator, error) {
	catalogs := make(map[string]Catalog)

	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: failed to read embedded locales: %w", err)
	}
	for _, entry := range entries {
		lang := strings.TrimSuffix(entry.Name(), ".json")
		data, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("i18n: failed to read locale %s: %w", lang, err)
		}
		var c Catalog
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("i18n: invalid locale file %s: %w", entry.Name(), err)
		}
		catalogs[lang] = c
	}
	if _, ok := catalogs[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("i18n: default language %q missing from embedded locales", DefaultLanguage)
	}

	return &Translator{catalogs: catalogs}, nil
}

// ApplyOverrides merges operator overrides from the translations collection.
// Only keys already present in the embedded defaults are replaced; unknown
// keys and unknown languages are skipped with a warning. Errors are logged and
// swallowed so startup never depends on the override store.
func (t *Translator) ApplyOverrides(ctx context.Context, coll *mongo.Collection) {
	logger := utils.GetLogger()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		logger.Warn("i18n: failed to load translation overrides", zap.Error(err))
		return
	}
	defer cursor.Close(ctx)

	applied, skipped := 0, 0
	t.mu.Lock()
	defer t.mu.Unlock()
	for cursor.Next(ctx) {
		var o translationOverride
		if err := cursor.Decode(&o); err != nil {
			logger.Warn("i18n: failed to decode translation override", zap.Error(err))
			continue
		}
		catalog, ok := t.catalogs[o.Lang]
		if !ok {
			skipped++
			continue
		}
		if _, ok := catalog[o.Key]; !ok {
			skipped++
			continue
		}
		catalog[o.Key] = o.Value
		applied++
	}

	logger.Info("i18n: translation overrides applied",
		zap.Int("applied", applied), zap.Int("skipped", skipped))
}

// CatalogFor returns the catalog for lang, falling back to the default
// language. The returned map is a copy; callers may not mutate shared state.
func (t *Translator) CatalogFor(lang string) Catalog {
	t.mu.RLock()
	defer t.mu.RUnlock()

	catalog, ok := t.catalogs[lang]
	if !ok {
		catalog = t.catalogs[DefaultLanguage]
	}
	out := make(Catalog, len(catalog))
	for k, v := range catalog {
		out[k] = v
	}
	return out
}

// T resolves one key for lang, falling back to the default language and
// finally to the key itself.
func (t *Translator) T(lang, key string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if c, ok := t.catalogs[lang]; ok {
		if v, ok := c[key]; ok {
			return v
		}
	}
	if v, ok := t.catalogs[DefaultLanguage][key]; ok {
		return v
	}
	return key
}

// Languages lists the available catalog languages.
func (t *Translator) Languages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	langs := make([]string, 0, len(t.catalogs))
	for lang := range t.catalogs {
		langs = append(langs, lang)
	}
	return langs
}

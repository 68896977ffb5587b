package i18n

import (
	"context"
	"embed"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var locales embed.FS

type localizerKey struct{}

// Bundle 已加载的翻译及支持的语言
type Bundle struct {
	*i18n.Bundle
	Default   language.Tag
	Supported []language.Tag
}

// Load 加载内置的 locales/<lang>.toml
func Load(defaultLang string) (*Bundle, error) {
	def, err := language.Parse(defaultLang)
	if err != nil {
		return nil, err
	}

	bundle := i18n.NewBundle(def)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	b := &Bundle{Bundle: bundle, Default: def}
	for _, e := range entries {
		name := path.Join("locales", e.Name())
		data, err := locales.ReadFile(name)
		if err != nil {
			return nil, err
		}
		if _, err := bundle.ParseMessageFileBytes(data, name); err != nil {
			return nil, err
		}
		tag, err := language.Parse(strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
		if err != nil {
			return nil, err
		}
		b.Supported = append(b.Supported, tag)
	}
	return b, nil
}

// Match 按 Accept-Language 选择语言，匹配不到时使用默认语言
func (b *Bundle) Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return b.Default
	}
	matcher := language.NewMatcher(append([]language.Tag{b.Default}, b.Supported...))
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return b.Default
	}
	if idx == 0 {
		return b.Default
	}
	return b.Supported[idx-1]
}

// WithLocalizer 将 Localizer 放入 context
func WithLocalizer(ctx context.Context, l *i18n.Localizer) context.Context {
	return context.WithValue(ctx, localizerKey{}, l)
}

// T 翻译消息，找不到 Localizer 或消息时原样返回 key
func T(ctx context.Context, key string, data map[string]interface{}) string {
	localizer, ok := ctx.Value(localizerKey{}).(*i18n.Localizer)
	if !ok {
		return key
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil && msg == "" {
		return key
	}
	return msg
}

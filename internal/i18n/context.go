package i18n

import "context"

type localeKey struct{}

// WithLocale attaches the locale a request should be rendered in.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// LocaleFromContext returns the locale set by WithLocale, or "".
func LocaleFromContext(ctx context.Context) string {
	locale, _ := ctx.Value(localeKey{}).(string)
	return locale
}

// PrinterFor returns a printer for the locale carried by ctx. A nil
// translator yields the untranslated English printer.
func (t *Translator) PrinterFor(ctx context.Context) *Printer {
	if t == nil {
		return Fallback()
	}
	return t.Printer(LocaleFromContext(ctx))
}

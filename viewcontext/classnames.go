package viewcontext

import (
	"strings"
	"unicode"
)

// TemplateClassNames returns the class names describing the current
// layout, controller and action, typically assigned to the body element.
//
// Controller path segments fold into increasingly specific tokens and a
// final token joins the most specific one with the action by a double
// hyphen:
//
//	TemplateClassNames(nil, false, "client_services/dashboard", "index")
//	// "client-services client-services-dashboard client-services-dashboard--index"
//
// When hasLayout is true the layout name, without its "layouts/" prefix,
// comes first. Empty tokens are dropped and duplicates keep their first
// position.
func TemplateClassNames(layout any, hasLayout bool, controller, action string) string {
	var tokens []string
	if hasLayout {
		tokens = append(tokens, layoutClassNames(layout)...)
	}
	tokens = append(tokens, ControllerClassNames(controller, action)...)

	seen := make(map[string]bool, len(tokens))
	out := tokens[:0]
	for _, token := range tokens {
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		out = append(out, token)
	}
	return strings.Join(out, " ")
}

// ControllerClassNames returns one token per controller path segment plus
// the action token, k+1 tokens for k segments. An empty controller yields
// no tokens.
func ControllerClassNames(controller, action string) []string {
	if controller == "" {
		return nil
	}

	segments := strings.Split(controller, "/")
	classes := make([]string, 0, len(segments)+1)
	for _, segment := range segments {
		prefix := ""
		if len(classes) > 0 {
			prefix = classes[len(classes)-1] + "-"
		}
		classes = append(classes, Dasherize(prefix+segment))
	}

	return append(classes, Dasherize(classes[len(classes)-1]+"--"+action))
}

func layoutClassNames(layout any) []string {
	name := strings.TrimPrefix(LayoutName(layout), LayoutsDir)
	return []string{Dasherize(name)}
}

// Dasherize lower-cases s and turns underscores, spaces and camel-case
// boundaries into hyphens. Existing hyphens are kept, so "a--b" stays as is.
func Dasherize(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		switch {
		case r == '_' || r == ' ':
			b.WriteRune('-')
		case unicode.IsUpper(r):
			if i > 0 && camelBoundary(runes, i) {
				b.WriteRune('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// camelBoundary reports whether the upper-case rune at i starts a new word:
// "fooBar" at B, or "HTMLPage" at P.
func camelBoundary(runes []rune, i int) bool {
	prev := runes[i-1]
	if prev == '-' || prev == '_' || prev == ' ' || prev == '/' {
		return false
	}
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

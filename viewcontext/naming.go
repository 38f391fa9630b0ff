package viewcontext

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// ModuleSuffix is appended to every derived module name.
	ModuleSuffix = "ViewContext"

	// LayoutNamespace prefixes module names derived from raw layout names.
	LayoutNamespace = "Layouts::"

	// NamespaceSeparator joins camelized path segments.
	NamespaceSeparator = "::"

	// LayoutsDir is the directory layouts live in, as seen in virtual paths.
	LayoutsDir = "layouts/"
)

// Template is a parsed template handle. Its virtual path identifies the
// template independently of where it is stored, e.g. "layouts/application".
type Template interface {
	VirtualPath() string
}

// LayoutModuleName derives the symbolic module name for a layout.
//
// A Template handle camelizes its whole virtual path, so
// "layouts/application" becomes "Layouts::ApplicationViewContext". A raw
// name (string or fmt.Stringer) is camelized inside the Layouts namespace,
// so "application" becomes "Layouts::ApplicationViewContext" too. A nil
// layout yields "Layouts::ViewContext", which nothing registers.
func LayoutModuleName(layout any) string {
	switch l := layout.(type) {
	case Template:
		return Camelize(l.VirtualPath()) + ModuleSuffix
	case string:
		return LayoutNamespace + Camelize(l) + ModuleSuffix
	case fmt.Stringer:
		return LayoutNamespace + Camelize(l.String()) + ModuleSuffix
	case nil:
		return LayoutNamespace + ModuleSuffix
	default:
		return LayoutNamespace + Camelize(fmt.Sprint(l)) + ModuleSuffix
	}
}

// ControllerModuleName is the conventional module name for a controller
// path: "admin/randoms" → "Admin::RandomsViewContext".
func ControllerModuleName(controllerPath string) string {
	return Camelize(controllerPath) + ModuleSuffix
}

// Camelize converts a path to its camel-cased symbolic form. Path segments
// are joined with "::" and underscore-separated words are capitalized, with
// the rest of each word kept as is: "client_services/dashboard" →
// "ClientServices::Dashboard".
func Camelize(path string) string {
	if path == "" {
		return ""
	}

	// Casers are stateful; one per call keeps Camelize safe for concurrent use.
	caser := cases.Title(language.Und, cases.NoLower)

	segments := strings.Split(path, "/")
	for i, segment := range segments {
		words := strings.Split(segment, "_")
		for j, word := range words {
			words[j] = caser.String(word)
		}
		segments[i] = strings.Join(words, "")
	}
	return strings.Join(segments, NamespaceSeparator)
}

// LayoutName returns the plain name of a layout reference: the virtual
// path of a Template, or the string form of anything else. nil yields "".
func LayoutName(layout any) string {
	switch l := layout.(type) {
	case Template:
		return l.VirtualPath()
	case string:
		return l
	case fmt.Stringer:
		return l.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(l)
	}
}

package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"regexp"
	"strconv"
	"strings"
)

var (
	sqlKeywordPattern = regexp.MustCompile(`(?i)\b(select|insert|update|delete|with)\b`)
	uuidMarkerPattern = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

type violation struct {
	file    string
	name    string
	line    int
	message string
}

func (v violation) String() string {
	return fmt.Sprintf("%s:%d %s (%s)", v.file, v.line, v.message, v.name)
}

type markerSite struct {
	file string
	line int
	name string
}

// linter accumulates violations across files so duplicated markers are
// reported wherever they occur.
type linter struct {
	seen       map[string]markerSite
	violations []violation
}

func newLinter() *linter {
	return &linter{seen: map[string]markerSite{}}
}

// lintFile parses path, or src when it is non-nil, and records violations.
func (l *linter) lintFile(path string, src any) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return err
	}
	ast.Inspect(file, func(n ast.Node) bool {
		vs, ok := n.(*ast.ValueSpec)
		if !ok {
			return true
		}
		for _, value := range vs.Values {
			bl, ok := value.(*ast.BasicLit)
			if !ok || bl.Kind != token.STRING {
				continue
			}
			raw, err := unquote(bl.Value)
			if err != nil || !sqlKeywordPattern.MatchString(raw) {
				continue
			}
			site := markerSite{file: path, line: fset.Position(bl.Pos()).Line, name: joinNames(vs.Names)}
			l.check(firstLine(raw), site)
		}
		return true
	})
	return nil
}

func (l *linter) check(marker string, site markerSite) {
	if !uuidMarkerPattern.MatchString(marker) {
		l.report(site, "missing or invalid --sql <uuid> marker")
		return
	}
	if prev, ok := l.seen[marker]; ok {
		l.report(site, fmt.Sprintf("marker already used by %s at %s:%d", prev.name, prev.file, prev.line))
		return
	}
	l.seen[marker] = site
}

func (l *linter) report(site markerSite, message string) {
	l.violations = append(l.violations, violation{file: site.file, line: site.line, name: site.name, message: message})
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n\r \t")
	if idx := strings.IndexAny(s, "\n\r"); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func unquote(v string) (string, error) {
	if len(v) == 0 {
		return v, nil
	}
	if v[0] == '`' {
		return v[1 : len(v)-1], nil
	}
	return strconv.Unquote(v)
}

func joinNames(idents []*ast.Ident) string {
	parts := make([]string, 0, len(idents))
	for _, ident := range idents {
		if ident == nil {
			continue
		}
		parts = append(parts, ident.Name)
	}
	return strings.Join(parts, ",")
}

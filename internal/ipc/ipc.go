// Package ipc holds presentation rules for illustrated-parts-catalog data:
// paging clamps, figure-item display, part-number fallbacks and the
// part-number query heuristic. These mirror the server's behavior so client
// rendering and server ranking agree.
package ipc

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultPageSize is the paging fallback of last resort.
const DefaultPageSize = 20

// MaxPageSize is the server-enforced ceiling.
const MaxPageSize = 200

// PositiveInt returns value when it is positive, else fallback when that is
// positive, else DefaultPageSize. Zero and negative inputs never pass
// through.
func PositiveInt(value, fallback int) int {
	if value > 0 {
		return value
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultPageSize
}

// ClampPageSize bounds a page size to [1, MaxPageSize].
func ClampPageSize(size int) int {
	if size < 1 {
		return 1
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// ClampPage bounds a page number to at least 1.
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// TotalPages computes the page count for a result total.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// FigItemDisplay renders the figure-item column from its raw cell and
// extracted number. A raw "-" with a known number becomes "- <no>"; a
// not-illustrated item with only a number gets the same dash prefix.
func FigItemDisplay(raw, no string, notIllustrated bool) string {
	raw = strings.TrimSpace(raw)
	no = strings.TrimSpace(no)
	switch {
	case raw == "-" && no != "":
		return "- " + no
	case raw != "" && no != "":
		return raw + " " + no
	case raw != "":
		return raw
	case no != "":
		if notIllustrated {
			return "- " + no
		}
		return no
	}
	return ""
}

// PartNumber picks the best available part-number spelling: canonical, then
// extracted, then the raw cell.
func PartNumber(canonical, extracted, cell string) string {
	if canonical != "" {
		return canonical
	}
	if extracted != "" {
		return extracted
	}
	return cell
}

var pnQueryRe = regexp.MustCompile(`^[A-Z0-9][A-Z0-9./-]*$`)

// LooksLikePartNumber reports whether a query resembles a typical IPC part
// number: uppercase alphanumerics with ./- separators, at least one digit,
// no whitespace, not dot-led. PN-like queries get part-number ranking
// priority.
func LooksLikePartNumber(q string) bool {
	q = strings.ToUpper(strings.TrimSpace(q))
	if q == "" || strings.HasPrefix(q, ".") {
		return false
	}
	hasDigit := false
	for _, r := range q {
		if unicode.IsSpace(r) {
			return false
		}
		if r >= '0' && r <= '9' {
			hasDigit = true
		}
	}
	return hasDigit && pnQueryRe.MatchString(q)
}

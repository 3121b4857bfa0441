package scorer

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// positiveKeywords and negativeKeywords classify attribute text. Positive
// matches suggest a brand mark; negative matches suggest partner strips,
// payment badges, and similar third-party imagery.
var (
	positiveKeywords = regexp.MustCompile(`(?i)logo|brand|identity`)
	negativeKeywords = regexp.MustCompile(`(?i)partner|client|sponsor|payment|manufacturer`)
)

// imageContext is the pre-extracted view of one image element that the
// rules score against. Extracting it once keeps the rules pure and free
// of DOM traversal.
type imageContext struct {
	// src is the raw src attribute, never empty.
	src string

	// resolvedURL is the normalized absolute candidate URL, lowercased
	// for matching.
	resolvedURL string

	// alt is the alt attribute, lowercased for matching.
	alt string

	// attrText joins class, id, alt, and src of the image itself.
	attrText string

	// ancestorNames holds the element names of every ancestor.
	ancestorNames []string

	// ancestorClassText joins class and id attributes of every ancestor.
	ancestorClassText string

	// anchorHref is the href of the nearest enclosing anchor, empty
	// when the image is not wrapped in a link.
	anchorHref string
}

// newImageContext collects the image's own attributes and its ancestor
// chain. Absent attributes read as empty strings.
func newImageContext(n *html.Node, src string) *imageContext {
	img := &imageContext{
		src:      src,
		alt:      strings.ToLower(getAttr(n, "alt")),
		attrText: strings.Join([]string{getAttr(n, "class"), getAttr(n, "id"), getAttr(n, "alt"), src}, " "),
	}

	var classes []string
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		img.ancestorNames = append(img.ancestorNames, p.Data)
		if cls := getAttr(p, "class"); cls != "" {
			classes = append(classes, cls)
		}
		if id := getAttr(p, "id"); id != "" {
			classes = append(classes, id)
		}
		if img.anchorHref == "" && p.Data == "a" {
			img.anchorHref = getAttr(p, "href")
		}
	}
	img.ancestorClassText = strings.Join(classes, " ")

	return img
}

// imageRule scores one aspect of an image element. It returns the score
// delta, the signal label, and whether the rule fired at all.
type imageRule func(s *Scorer, img *imageContext) (int, string, bool)

// imageRules is the ordered rule set applied to every image element.
// Modeling the rules as data keeps each one independently testable and
// makes the evaluation a uniform fold instead of control flow.
var imageRules = []imageRule{
	ruleHomeLink,
	rulePlacement,
	ruleKeyword,
	ruleDomainStem,
	ruleAltText,
	ruleNegativeKeyword,
}

// ruleHomeLink rewards an image whose nearest enclosing link points at
// the site root. A link to a different site is deliberately a no-op
// rather than a penalty: sponsor strips already pay through
// ruleNegativeKeyword, and penalizing twice buries legitimate candidates.
func ruleHomeLink(s *Scorer, img *imageContext) (int, string, bool) {
	if img.anchorHref == "" || !s.isHomeLink(img.anchorHref) {
		return 0, "", false
	}
	return scoreHomeLink, SignalHomeLink, true
}

// rulePlacement scores header placement up and footer placement down.
// Header wins when an element matches both, mirroring the markup reality
// that the closest semantic container is listed first.
func rulePlacement(_ *Scorer, img *imageContext) (int, string, bool) {
	classText := strings.ToLower(img.ancestorClassText)
	if containsName(img.ancestorNames, "header") || strings.Contains(classText, "header") {
		return scoreHeaderPlacement, SignalHeader, true
	}
	if containsName(img.ancestorNames, "footer") || strings.Contains(classText, "footer") {
		return scoreFooterPlacement, SignalFooter, true
	}
	return 0, "", false
}

// ruleKeyword matches brand vocabulary in the image's class, id, alt
// text, or source filename.
func ruleKeyword(_ *Scorer, img *imageContext) (int, string, bool) {
	if !positiveKeywords.MatchString(img.attrText) {
		return 0, "", false
	}
	return scoreKeywordMatch, SignalKeyword, true
}

// ruleDomainStem matches the site's domain stem in the absolute
// candidate URL, the "acme" in acme-logo.svg on a CDN. Images served
// from the site's own host match through the host name, so a plain
// /logo.png on acme.com still earns the bonus.
func ruleDomainStem(s *Scorer, img *imageContext) (int, string, bool) {
	if s.stem == "" || !strings.Contains(img.resolvedURL, s.stem) {
		return 0, "", false
	}
	return scoreDomainStem, fmt.Sprintf("Filename matches domain '%s'", s.stem), true
}

// ruleAltText matches "logo" in the alt text alone. This stacks with
// ruleKeyword on purpose: alt text is the strongest of the keyword
// carriers and earns an extra nudge.
func ruleAltText(_ *Scorer, img *imageContext) (int, string, bool) {
	if !strings.Contains(img.alt, "logo") {
		return 0, "", false
	}
	return scoreAltText, SignalAltText, true
}

// ruleNegativeKeyword penalizes partner/client/sponsor vocabulary on the
// image or anywhere in its ancestor class and id attributes.
func ruleNegativeKeyword(_ *Scorer, img *imageContext) (int, string, bool) {
	if !negativeKeywords.MatchString(img.attrText) && !negativeKeywords.MatchString(img.ancestorClassText) {
		return 0, "", false
	}
	return scoreNegativeKeyword, SignalNegative, true
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

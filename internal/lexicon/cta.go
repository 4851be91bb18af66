package lexicon

import "github.com/runnerr0/pulse/internal/textnorm"

// CTA category names, in reporting order.
const (
	CTAOrder     = "order"
	CTAVisit     = "visit"
	CTACall      = "call"
	CTADM        = "dm"
	CTALinkInBio = "link_in_bio"
	CTADownload  = "download"
	CTAPickup    = "pickup"
	CTADelivery  = "delivery"
)

var ctaCategories = []category{
	{CTAOrder, mustCompileAll([]string{`\border\b`, `\borden(a|e|en)?\b`, `order\s+now`, `ordena\s+ya`})},
	{CTAVisit, mustCompileAll([]string{`\bvisit\b`, `\bvisita\b`, `\bcome\s+by\b`, `\bpás(a|ate)\b`, `\bven\b`})},
	{CTACall, mustCompileAll([]string{`\bcall\b`, `\bllama\b`, `\btext\b`, `\bmensaje\b`})},
	{CTADM, mustCompileAll([]string{`\bdm\b`, `\bmessage us\b`, `\bmand(a|en)\s+dm\b`, `\bmand(a|en)\s+mensaje\b`})},
	{CTALinkInBio, mustCompileAll([]string{`link in bio`, `enlace en bio`, `link en bio`})},
	{CTADownload, mustCompileAll([]string{`\bdownload\b`, `\bdescarga\b`, `\bapp\b`})},
	{CTAPickup, mustCompileAll([]string{`\bpickup\b`, `\brecog(e|er)\b`, `\bpara llevar\b`})},
	{CTADelivery, mustCompileAll([]string{`\bdelivery\b`, `\bentrega\b`, `\bdomicilio\b`, `doordash`, `uber\s*eats`, `grubhub`})},
}

// CTACategories lists every CTA category name in reporting order.
func CTACategories() []string {
	names := make([]string, len(ctaCategories))
	for i, c := range ctaCategories {
		names[i] = c.name
	}
	return names
}

// DetectCTAs returns the call-to-action categories present in text.
func DetectCTAs(text string) []string {
	return detect(ctaCategories, textnorm.Lower(text))
}

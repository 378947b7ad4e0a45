// Package patterns holds the static reference tables used by the pattern
// stages: disposable domains, role-based local parts, common domain typos
// and the major providers used for fuzzy typo matching.
package patterns

import (
	_ "embed"
	"strings"
)

//go:embed disposable.txt
var rawDisposable string

var disposableSet map[string]struct{}

func init() {
	var domains []string
	for _, line := range strings.Split(rawDisposable, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			domains = append(domains, line)
		}
	}
	disposableSet = toSet(domains)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}

// IsDisposable returns whether the domain belongs to a known temporary email provider.
func IsDisposable(domain string) bool {
	_, ok := disposableSet[strings.ToLower(domain)]
	return ok
}

// DisposableCount is the number of loaded disposable domains.
func DisposableCount() int {
	return len(disposableSet)
}

var roles = []string{
	"abuse", "account", "accounts", "admin", "administrator", "billing",
	"contact", "contactus", "customerservice", "dev", "devnull", "dns",
	"do-not-reply", "donotreply", "enquiries", "feedback", "finance",
	"help", "helpdesk", "hello", "hostmaster", "hr", "info", "inquiries",
	"jobs", "legal", "list", "mail", "mailer-daemon", "marketing",
	"media", "news", "newsletter", "no-reply", "noc", "noreply", "office",
	"orders", "postmaster", "press", "privacy", "root", "sales",
	"security", "service", "support", "sysadmin", "team", "tech",
	"webmaster",
}

var roleSet = toSet(roles)

// IsRole returns whether the local part denotes a function rather than a person.
func IsRole(local string) bool {
	_, ok := roleSet[strings.ToLower(local)]
	return ok
}

var typoMap = map[string]string{
	// gmail.com
	"gmial.com":  "gmail.com",
	"gmai.com":   "gmail.com",
	"gmal.com":   "gmail.com",
	"gmaill.com": "gmail.com",
	"gmail.co":   "gmail.com",
	"gmail.cm":   "gmail.com",
	"gmail.con":  "gmail.com",
	"gmail.om":   "gmail.com",
	"gamil.com":  "gmail.com",
	"gnail.com":  "gmail.com",
	"gmsil.com":  "gmail.com",
	"gmail.comm": "gmail.com",
	// yahoo.com
	"yahooo.com": "yahoo.com",
	"yaho.com":   "yahoo.com",
	"yahoo.co":   "yahoo.com",
	"yahoo.cm":   "yahoo.com",
	"yahoo.con":  "yahoo.com",
	"yhoo.com":   "yahoo.com",
	"yahho.com":  "yahoo.com",
	// hotmail.com
	"hotmial.com": "hotmail.com",
	"hotmai.com":  "hotmail.com",
	"hotmal.com":  "hotmail.com",
	"hotmail.co":  "hotmail.com",
	"hotmail.cm":  "hotmail.com",
	"hotmail.con": "hotmail.com",
	"hotmil.com":  "hotmail.com",
	"hotamil.com": "hotmail.com",
	// outlook.com
	"outlok.com":   "outlook.com",
	"outloo.com":   "outlook.com",
	"outlook.co":   "outlook.com",
	"outlook.con":  "outlook.com",
	"outllook.com": "outlook.com",
	// icloud.com
	"iclod.com":  "icloud.com",
	"icloud.co":  "icloud.com",
	"icloud.con": "icloud.com",
	"icoud.com":  "icloud.com",
	// aol.com
	"aol.co":   "aol.com",
	"aol.con":  "aol.com",
	"aoll.com": "aol.com",
}

// TypoCorrection returns the corrected domain for a known misspelling.
func TypoCorrection(domain string) (string, bool) {
	fixed, ok := typoMap[strings.ToLower(domain)]
	return fixed, ok
}

// Providers is the list of major mailbox providers used as fuzzy typo targets.
var Providers = []string{
	"gmail.com", "googlemail.com",
	"yahoo.com", "yahoo.co.uk", "yahoo.fr", "yahoo.de",
	"outlook.com", "hotmail.com", "hotmail.co.uk", "live.com", "msn.com",
	"icloud.com", "me.com", "mac.com",
	"protonmail.com", "proton.me",
	"aol.com",
	"zoho.com",
	"yandex.com", "yandex.ru",
	"mail.com",
	"gmx.com", "gmx.net", "gmx.de",
	"fastmail.com",
	"tutanota.com",
}

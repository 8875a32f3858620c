package discover

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

// patternConfidence is assigned to emails generated from the domain's
// detected template. A template match is a decent guess, not a verified
// address.
const patternConfidence = 60

// cascade resolves an email for every owner still lacking one, trying the
// finder first and the domain template second. Owners run sequentially to
// respect the finder's implicit rate limits; an owner that exhausts both
// strategies stays in the result without an email.
func (r *run) cascade(ctx context.Context) {
	if r.domain == "" || r.o.sources.ContactDB == nil {
		return
	}

	for _, owner := range r.owners.all() {
		if owner.Email != "" {
			continue
		}

		if email, score := r.findEmail(ctx, owner.FirstName, owner.LastName); email != "" {
			owner.Email = email
			owner.EmailConfidence = score
			owner.EmailSource = model.EmailSourceFinder
			r.meta.EmailsFound = append(r.meta.EmailsFound, email)
			continue
		}

		if email := r.patternEmail(ctx, owner.FirstName, owner.LastName); email != "" {
			owner.Email = email
			owner.EmailConfidence = patternConfidence
			owner.EmailSource = model.EmailSourceDomainPattern
			r.meta.EmailsFound = append(r.meta.EmailsFound, email)
		}
	}
}

func (r *run) findEmail(ctx context.Context, first, last string) (string, int) {
	res, err := r.o.sources.ContactDB.FindEmail(ctx, first, last, r.domain)
	if err != nil {
		r.log.Debug("discover: finder lookup failed",
			zap.String("name", first+" "+last),
			zap.Error(err),
		)
		return "", 0
	}
	if res == nil || res.Email == "" {
		return "", 0
	}
	return res.Email, res.Score
}

// patternEmail substitutes a name into the domain's email template. The
// template is fetched at most once per invocation; a failed or empty fetch
// is cached so later owners skip the call.
func (r *run) patternEmail(ctx context.Context, first, last string) string {
	if !r.patternFetched {
		r.patternFetched = true
		tmpl, err := r.o.sources.ContactDB.EmailPattern(ctx, r.domain)
		if err != nil {
			r.log.Debug("discover: email pattern lookup failed", zap.Error(err))
		} else {
			r.pattern = tmpl
		}
	}
	if r.pattern == "" {
		return ""
	}
	return expandPattern(r.pattern, first, last, r.domain)
}

// expandPattern fills a hunter-style template such as "{first}.{last}" or
// "{f}{last}" and appends the domain when the template has no "@".
func expandPattern(tmpl, first, last, domain string) string {
	first = strings.ToLower(first)
	last = strings.ToLower(last)

	repl := strings.NewReplacer(
		"{first}", first,
		"{last}", last,
		"{f}", firstRune(first),
		"{l}", firstRune(last),
	)
	addr := repl.Replace(tmpl)
	if !strings.Contains(addr, "@") {
		addr += "@" + domain
	}
	return addr
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

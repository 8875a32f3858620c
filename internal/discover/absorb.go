package discover

import (
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

// absorbRound folds a settled round of adapter results into business info
// and the owner set. Absorption order encodes source authority: an
// explicitly labeled owner is absorbed before names merely inferred from
// review signatures, so when both map to one key the authoritative title
// is the one kept.
func (r *run) absorbRound(review *ReviewSiteResult, mapRes *MapResult, cdb *ContactDBResult, scrape *ScrapeResult) {
	if review != nil {
		r.meta.ReviewSiteFound = true
		r.absorbReviewInfo(review)
	}
	if mapRes != nil {
		r.meta.MapServiceFound = true
		r.absorbMapInfo(mapRes)
	}

	if review != nil && review.OwnerName != "" {
		r.addOwner(review.OwnerName, review.OwnerTitle, "Business Owner", model.SourceReviewSite, review.Phone)
	}
	if mapRes != nil && mapRes.OwnerName != "" {
		r.addOwner(mapRes.OwnerName, "", "Business Owner", model.SourceMapService, "")
	}

	if cdb != nil {
		r.meta.ContactDBFound = len(cdb.Contacts) > 0
		r.absorbContacts(cdb)
	}
	if scrape != nil {
		r.meta.DomainScrapeFound = len(scrape.Owners) > 0 || len(scrape.Emails) > 0
		r.absorbScrape(scrape)
	}

	// Review responders last: the weakest ownership signal.
	if mapRes != nil {
		for _, name := range mapRes.ReviewResponderNames {
			r.addOwner(name, "", "Manager", model.SourceMapService, "")
		}
	}
}

func (r *run) absorbReviewInfo(res *ReviewSiteResult) {
	fill(&r.info.Phone, res.Phone)
	fill(&r.info.Website, res.Website)
	fill(&r.info.PriceLevel, res.PriceRange)
	fill(&r.info.ReviewURL, res.URL)
	if r.info.Rating == nil {
		r.info.Rating = res.Rating
	}
	if r.info.ReviewCount == nil {
		r.info.ReviewCount = res.ReviewCount
	}
	if res.Address != nil {
		fill(&r.info.Street, res.Address.Street)
		fill(&r.info.City, res.Address.City)
		fill(&r.info.State, res.Address.State)
		fill(&r.info.Zip, res.Address.Zip)
	}
}

func (r *run) absorbMapInfo(res *MapResult) {
	fill(&r.info.Phone, res.Phone)
	fill(&r.info.Website, res.Website)
	fill(&r.info.PriceLevel, res.PriceLevel)
	fill(&r.info.MapsURL, res.MapsURL)
	if r.info.Rating == nil {
		r.info.Rating = res.Rating
	}
	if r.info.ReviewCount == nil {
		r.info.ReviewCount = res.ReviewCount
	}
}

// absorbContacts folds contact-database people in. Records arriving with
// an email keep it along with the adapter-reported confidence.
func (r *run) absorbContacts(res *ContactDBResult) {
	for _, rec := range res.Contacts {
		if rec.FirstName == "" || rec.LastName == "" {
			continue
		}
		owner := model.Owner{
			Name:      rec.FirstName + " " + rec.LastName,
			FirstName: rec.FirstName,
			LastName:  rec.LastName,
			Title:     rec.Title,
			Source:    model.SourceContactDB,
		}
		if owner.Title == "" {
			owner.Title = "Contact"
		}
		if rec.Email != "" {
			owner.Email = rec.Email
			owner.EmailConfidence = rec.Confidence
			if owner.EmailConfidence == 0 {
				owner.EmailConfidence = 75
			}
			owner.EmailSource = model.EmailSourceContactDB
			r.meta.EmailsFound = append(r.meta.EmailsFound, rec.Email)
		}
		r.meta.NamesFound = append(r.meta.NamesFound, owner.Name)
		r.owners.put(owner)
	}
}

func (r *run) absorbScrape(res *ScrapeResult) {
	for _, so := range res.Owners {
		r.addOwner(so.Name, so.Title, "Contact", model.SourceDomainScrape, "")
	}
	r.meta.EmailsFound = append(r.meta.EmailsFound, res.Emails...)
}

// addOwner normalizes a full name and inserts it if new. Names that do not
// split into first and last are recorded in meta but never become owners.
func (r *run) addOwner(fullName, title, defaultTitle string, source model.OwnerSource, phone string) {
	r.meta.NamesFound = append(r.meta.NamesFound, fullName)

	first, last, ok := splitName(fullName)
	if !ok {
		r.log.Debug("discover: unsplittable name skipped",
			zap.String("name", fullName),
			zap.String("source", string(source)),
		)
		return
	}
	if title == "" {
		title = defaultTitle
	}
	r.owners.put(model.Owner{
		Name:      fullName,
		FirstName: first,
		LastName:  last,
		Title:     title,
		Phone:     phone,
		Source:    source,
	})
}

// fill sets dst only when it is still empty.
func fill(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

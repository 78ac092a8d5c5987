package reconcile

import "github.com/nhle/unread-tracker/internal/model"

// Applies reports whether a stored record is relevant to the given page
// context:
//
//   - a single-repo inbox shows only records from that repository,
//   - the participating-only inbox shows only records the acting user
//     participates in,
//   - every other context (full inbox, discussion lists, item pages)
//     shows everything.
//
// A record is never shown in a context-mismatched view.
func Applies(rec model.NotificationRecord, page model.PageContext) bool {
	if page.Kind != model.PageInbox {
		return true
	}

	switch page.Filter {
	case model.FilterRepo:
		return rec.RepoFullName == page.Repo
	case model.FilterParticipating:
		return rec.IsParticipating
	default:
		return true
	}
}

// ApplicableRecords returns the subset of records relevant to the page
// context, preserving storage order.
func ApplicableRecords(
	records []model.NotificationRecord,
	page model.PageContext,
) []model.NotificationRecord {
	var out []model.NotificationRecord
	for _, rec := range records {
		if Applies(rec, page) {
			out = append(out, rec)
		}
	}
	return out
}

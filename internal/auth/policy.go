package auth

import "github.com/chichamlab/chicham/internal/model"

// Per-entity access rules, evaluated before every read and write. This is
// the authorization mechanism, not defense-in-depth: every service method
// goes through these checks, whatever layer called it. A row the caller may
// not read is reported as not found.

// CanReadWord: active dictionary rows are public; non-active rows are
// visible to their creator and to experts.
func CanReadWord(p Principal, w *model.Word) bool {
	if w.Active() {
		return true
	}
	return p.Expert() || (p.Authenticated() && w.CreatedBy == p.ID)
}

// CanWriteWord: dictionary mutations (words, variants, relations) are
// expert/admin territory.
func CanWriteWord(p Principal) bool {
	return p.Expert()
}

// CanUpdateWord: the creator may amend their own entry; experts may amend
// any.
func CanUpdateWord(p Principal, w *model.Word) bool {
	if p.Expert() {
		return true
	}
	return p.Authenticated() && w.CreatedBy == p.ID
}

// CanReadTranslation: approved rows are public; the creator sees their own
// rows in any state; experts see everything.
func CanReadTranslation(p Principal, t *model.Translation) bool {
	if t.Status == model.TranslationStatusApproved {
		return true
	}
	if p.Expert() {
		return true
	}
	return p.Authenticated() && t.CreatedBy == p.ID
}

// CanCreateTranslation: any authenticated principal may submit; the row is
// stamped with their identity.
func CanCreateTranslation(p Principal) bool {
	return p.Authenticated()
}

// CanUpdateTranslation: creator or expert.
func CanUpdateTranslation(p Principal, t *model.Translation) bool {
	if p.Expert() {
		return true
	}
	return p.Authenticated() && t.CreatedBy == p.ID
}

// CanManageTranslation: status transitions (approve/reject) and deletes.
func CanManageTranslation(p Principal) bool {
	return p.Expert()
}

// CanSubmitFeedback: any caller may submit feedback; policy for anonymous
// submissions is decided here in one place.
func CanSubmitFeedback(p Principal) bool {
	return true
}

// CanReadFeedback: the author, the owning translation's creator, or an
// expert.
func CanReadFeedback(p Principal, f *model.Feedback, translationCreator string) bool {
	if p.Expert() {
		return true
	}
	if !p.Authenticated() {
		return false
	}
	if f.UserID != nil && *f.UserID == p.ID {
		return true
	}
	return translationCreator == p.ID
}

// CanUpdateFeedback: the author may amend their feedback until it has been
// reviewed; experts may always.
func CanUpdateFeedback(p Principal, f *model.Feedback) bool {
	if p.Expert() {
		return true
	}
	if f.Reviewed() {
		return false
	}
	return p.Authenticated() && f.UserID != nil && *f.UserID == p.ID
}

// CanReviewFeedback: expert/admin only.
func CanReviewFeedback(p Principal) bool {
	return p.Expert()
}

// CanReadUsageLog: the associated user or an expert. Inserts are open to
// everyone, including system-initiated unauthenticated lookups.
func CanReadUsageLog(p Principal, entry *model.UsageLog) bool {
	if p.Expert() {
		return true
	}
	return p.Authenticated() && entry.UserID != nil && *entry.UserID == p.ID
}

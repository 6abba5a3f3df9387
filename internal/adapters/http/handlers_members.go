package web

import (
	"errors"
	"fmt"
	"net/http"

	"fitclub/internal/adapters/http/middleware"
	"fitclub/internal/adapters/storage"
	"fitclub/internal/application/orchestrators"
	"fitclub/internal/application/projections"
	"fitclub/internal/domain/form"
	"fitclub/internal/domain/member"
	"fitclub/internal/domain/payment"
)

// Flash texts for the member detail page.
const (
	msgMemberDenied        = "You are not permitted to view this member's details."
	msgAdminRequired       = "Admin access is required to change membership."
	msgPlanUpdatedFmt      = "Membership plan updated for %s."
	msgPaymentRecordedFmt  = "Payment recorded for %s."
	prefixPlanUpdateFailed = "Failed to update plan: "
	prefixPaymentFailed    = "Failed to record payment: "
)

// handleDashboard lists the logged-in account's members with their expiring-soon flag.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	now := timeNow()

	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{
		AccountID: sess.AccountID,
		Now:       now,
	}, projections.GetDashboardDeps{
		MemberStore:  stores.MemberStore,
		AccountStore: stores.AccountStore,
		PlanStore:    stores.PlanStore,
	})
	if err != nil {
		internalError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, r, http.StatusOK, result)
		return
	}
	renderTemplate(w, r, "dashboard.html", map[string]any{
		"Members":       result.Members,
		"ExpiringCount": result.ExpiringCount,
		"Today":         member.Today(now),
	})
}

// memberDetailPage is the template data for member_detail.html.
type memberDetailPage struct {
	projections.MemberDetailResult
	Statuses      []payment.Status
	PlanValues    form.Values
	PaymentValues form.Values
}

// handleMemberDetail handles GET (view) and POST (plan_submit / payment_submit) for /member/{id}/.
func handleMemberDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead && r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	sess := middleware.CurrentSession(ctx)
	memberID := r.PathValue("id")

	detail, err := projections.QueryGetMemberDetail(ctx, projections.GetMemberDetailQuery{
		MemberID:  memberID,
		AccountID: sess.AccountID,
		Flags:     sess.Flags,
		Now:       timeNow(),
	}, projections.GetMemberDetailDeps{
		MemberStore:  stores.MemberStore,
		AccountStore: stores.AccountStore,
		PlanStore:    stores.PlanStore,
		PaymentStore: stores.PaymentStore,
	})
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}

	if !detail.Authorized {
		if wantsJSON(r) {
			renderJSON(w, r, http.StatusForbidden, detail)
			return
		}
		addFlash(w, r, middleware.FlashError, msgMemberDenied)
		renderTemplate(w, r, "member_detail.html", memberDetailPage{MemberDetailResult: detail})
		return
	}

	page := memberDetailPage{
		MemberDetailResult: detail,
		Statuses:           payment.ValidStatuses,
		PlanValues:         form.Values{"membership_plan": detail.Member.PlanID},
		PaymentValues:      form.Values{},
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		if handled := handleMemberDetailPost(w, r, &page, sess); handled {
			return
		}
	}

	if wantsJSON(r) {
		renderJSON(w, r, http.StatusOK, detail)
		return
	}
	renderTemplate(w, r, "member_detail.html", page)
}

// handleMemberDetailPost runs the submitted member form. It returns true when
// the response has been written; otherwise the page is rendered with the flashes queued.
func handleMemberDetailPost(w http.ResponseWriter, r *http.Request, page *memberDetailPage, sess middleware.Session) bool {
	_, planSubmit := r.PostForm["plan_submit"]
	_, paymentSubmit := r.PostForm["payment_submit"]
	if !planSubmit && !paymentSubmit {
		return false
	}
	if !sess.Flags.AdminAccess {
		addFlash(w, r, middleware.FlashError, msgAdminRequired)
		return false
	}

	ctx := r.Context()
	memberID := page.Member.MemberID
	username := page.Member.Username

	if planSubmit {
		planID := r.PostFormValue("membership_plan")
		_, err := orchestrators.ExecuteAssignPlan(ctx, orchestrators.AssignPlanInput{
			MemberID: memberID,
			PlanID:   planID,
			Flags:    sess.Flags,
		}, orchestrators.AssignPlanDeps{
			MemberStore: stores.MemberStore,
			PlanStore:   stores.PlanStore,
			Now:         timeNow,
		})
		if errs, ok := formErrors(err); ok {
			flashFormErrors(w, r, prefixPlanUpdateFailed, errs)
			page.PlanValues = form.Values{"membership_plan": planID}
			return false
		}
		if err != nil {
			writeLifecycleError(w, r, err)
			return true
		}
		perfCollector.CountEvent("plan_assigned")
		addFlash(w, r, middleware.FlashSuccess, fmt.Sprintf(msgPlanUpdatedFmt, username))
		http.Redirect(w, r, r.URL.Path, http.StatusFound)
		return true
	}

	values := orchestrators.PaymentSchema.Bind(r.PostForm)
	result, err := orchestrators.ExecuteRecordPayment(ctx, orchestrators.RecordPaymentInput{
		MemberID: memberID,
		Values:   values,
		Flags:    sess.Flags,
	}, orchestrators.RecordPaymentDeps{
		MemberStore:  stores.MemberStore,
		PaymentStore: stores.PaymentStore,
		Policy:       renewalPolicy,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if errs, ok := formErrors(err); ok {
		flashFormErrors(w, r, prefixPaymentFailed, errs)
		page.PaymentValues = values
		return false
	}
	if err != nil {
		writeLifecycleError(w, r, err)
		return true
	}
	perfCollector.CountEvent("payment_recorded")
	if result.Renewed {
		perfCollector.CountEvent("membership_renewed")
	}
	addFlash(w, r, middleware.FlashSuccess, fmt.Sprintf(msgPaymentRecordedFmt, username))
	http.Redirect(w, r, r.URL.Path, http.StatusFound)
	return true
}

// writeLifecycleError maps a failed plan or payment change to a response.
func writeLifecycleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, orchestrators.ErrAdminAccessRequired):
		http.Error(w, msgAdminRequired, http.StatusForbidden)
	default:
		internalError(w, r, err)
	}
}

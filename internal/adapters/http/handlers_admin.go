package web

import (
	"errors"
	"net/http"

	"fitclub/internal/adapters/http/middleware"
	"fitclub/internal/application/listutil"
	"fitclub/internal/application/orchestrators"
	"fitclub/internal/application/projections"
	"fitclub/internal/domain/access"
	"fitclub/internal/domain/form"
	"fitclub/internal/domain/member"
)

// Flash texts for the plans page.
const (
	msgPlanPasswordNeeded = "You must enter the correct password to add a plan."
	msgPlanAdded          = "Plan added successfully!"
)

// handlePlans handles GET (list) and POST (password_submit / plan_submit) for /plans/.
func handlePlans(w http.ResponseWriter, r *http.Request) {
	sess := middleware.CurrentSession(r.Context())

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		renderPlans(w, r, sess.Flags, form.Values{}, nil)
		return
	case http.MethodPost:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	if _, ok := r.PostForm["password_submit"]; ok {
		result := orchestrators.ExecuteGrantPlanAccess(gate, orchestrators.GrantAccessInput{
			Flags:     sess.Flags,
			Password:  r.PostFormValue("password"),
			AccountID: sess.AccountID,
		})
		if !result.Granted {
			addFlash(w, r, middleware.FlashError, result.Message)
			renderPlans(w, r, sess.Flags, form.Values{}, nil)
			return
		}
		if err := middleware.UpdateFlags(w, r, result.Flags); err != nil {
			internalError(w, r, err)
			return
		}
		perfCollector.CountEvent("plan_access_granted")
		addFlash(w, r, middleware.FlashSuccess, result.Message)
		http.Redirect(w, r, "/plans/", http.StatusFound)
		return
	}

	if _, ok := r.PostForm["plan_submit"]; ok {
		values := orchestrators.PlanSchema.Bind(r.PostForm)
		_, err := orchestrators.ExecuteCreatePlan(r.Context(), orchestrators.CreatePlanInput{
			Values: values,
			Flags:  sess.Flags,
		}, orchestrators.CreatePlanDeps{
			PlanStore:  stores.PlanStore,
			GenerateID: generateID,
		})
		if errors.Is(err, orchestrators.ErrPlanAccessRequired) {
			addFlash(w, r, middleware.FlashError, msgPlanPasswordNeeded)
			http.Redirect(w, r, "/plans/", http.StatusFound)
			return
		}
		if errs, ok := formErrors(err); ok {
			flashFormErrors(w, r, "", errs)
			renderPlans(w, r, sess.Flags, values, errs)
			return
		}
		if err != nil {
			internalError(w, r, err)
			return
		}
		perfCollector.CountEvent("plan_created")
		addFlash(w, r, middleware.FlashSuccess, msgPlanAdded)
		http.Redirect(w, r, "/plans/", http.StatusFound)
		return
	}

	renderPlans(w, r, sess.Flags, form.Values{}, nil)
}

func renderPlans(w http.ResponseWriter, r *http.Request, flags access.Flags, values form.Values, errs form.Errors) {
	plans, err := projections.QueryListPlans(r.Context(), projections.ListPlansDeps{PlanStore: stores.PlanStore})
	if err != nil {
		internalError(w, r, err)
		return
	}
	if wantsJSON(r) {
		renderJSON(w, r, http.StatusOK, map[string]any{"plans": plans, "has_access": flags.HasPlanAccess()})
		return
	}
	renderTemplate(w, r, "plans.html", map[string]any{
		"Plans":     plans,
		"HasAccess": flags.HasPlanAccess(),
		"Values":    values,
		"Errors":    errs,
	})
}

// handleAdminDashboard lists every member for admins and otherwise shows the admin password form.
func handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	sess := middleware.CurrentSession(r.Context())

	if sess.Flags.AdminAccess {
		if r.Method != http.MethodGet && r.Method != http.MethodHead && r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		renderAdminDashboard(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if wantsJSON(r) {
			renderJSON(w, r, http.StatusForbidden, map[string]string{"error": "admin access required"})
			return
		}
		renderTemplate(w, r, "admin_dashboard.html", map[string]any{"Authorized": false})
		return
	case http.MethodPost:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	result := orchestrators.ExecuteGrantAdminAccess(gate, orchestrators.GrantAccessInput{
		Flags:     sess.Flags,
		Password:  r.PostFormValue("password"),
		AccountID: sess.AccountID,
	})
	if !result.Granted {
		addFlash(w, r, middleware.FlashError, result.Message)
		renderTemplate(w, r, "admin_dashboard.html", map[string]any{"Authorized": false})
		return
	}
	if err := middleware.UpdateFlags(w, r, result.Flags); err != nil {
		internalError(w, r, err)
		return
	}
	perfCollector.CountEvent("admin_access_granted")
	addFlash(w, r, middleware.FlashSuccess, result.Message)
	http.Redirect(w, r, "/admin-dashboard/", http.StatusFound)
}

// renderAdminDashboard lists members filtered, sorted and paged by the query string.
func renderAdminDashboard(w http.ResponseWriter, r *http.Request) {
	now := timeNow()
	list := listutil.ParseListParams(r.URL.Query(), projections.AdminSortColumns, projections.AdminFilterKeys)
	result, err := projections.QueryGetAdminDashboard(r.Context(), projections.GetAdminDashboardQuery{Now: now, List: list}, projections.GetAdminDashboardDeps{
		MemberStore:  stores.MemberStore,
		AccountStore: stores.AccountStore,
		PlanStore:    stores.PlanStore,
		TrialStore:   stores.TrialStore,
	})
	if err != nil {
		internalError(w, r, err)
		return
	}
	if wantsJSON(r) {
		renderJSON(w, r, http.StatusOK, result)
		return
	}
	renderTemplate(w, r, "admin_dashboard.html", map[string]any{
		"Authorized":    true,
		"Members":       result.Members,
		"ExpiringCount": result.ExpiringCount,
		"Trials":        result.Trials,
		"Today":         member.Today(now),
		"List":          list,
		"Page":          result.Page,
	})
}
